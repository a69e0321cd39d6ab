package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому в gin.Context лежит *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")

	// CurrentUserKey - аутентифицированный *models.User, который кладет AuthMiddleware
	CurrentUserKey = contextKey("current_user")
)
