// @title           Construction Inspection API
// @version         1.0
// @description     Бэкенд для учета инспекций на строительных площадках.
// @host            localhost:8000
// @BasePath        /

package main

import "siteinspect_backend/internal/app"

func main() {
	app.Run()
}
