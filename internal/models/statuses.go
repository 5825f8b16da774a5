package models

// Timing — классификация момента проверки (закрытый набор значений)
const (
	TimingHoldPoint   = "inspection_hold_point"
	TimingRandomCheck = "random_spot_check"
)

// Result — исход проверки (закрытый набор значений)
const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// IsValidTiming reports whether v is a known timing classification.
func IsValidTiming(v string) bool {
	return v == TimingHoldPoint || v == TimingRandomCheck
}

// IsValidResult reports whether v is a known inspection result.
func IsValidResult(v string) bool {
	return v == ResultPass || v == ResultFail
}
