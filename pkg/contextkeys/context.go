package contextkeys

import (
	"context"

	"gorm.io/gorm"
)

// Кастомный тип ключа, чтобы избежать коллизий в context
type contextKey string

// DBContextKey - ключ, по которому запросный *gorm.DB хранится в context.
// Тесты кладут сюда транзакцию, чтобы изолировать данные.
const DBContextKey = contextKey("db")

// WithDB возвращает контекст с подключением к базе.
func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, DBContextKey, db)
}

// DBFromContext достает *gorm.DB из контекста.
func DBFromContext(ctx context.Context) (*gorm.DB, bool) {
	db, ok := ctx.Value(DBContextKey).(*gorm.DB)
	return db, ok
}
