package contextkeys

type ContextKey string

const (
	// DBContextKey - ключ, под которым middleware кладет *gorm.DB
	// (пул соединений или открытую транзакцию) в контекст запроса.
	DBContextKey ContextKey = "db"
)
