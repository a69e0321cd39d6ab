package auth

// Роли пользователей. Роль - свободная строка, перечисление не навязывается.
const (
	RoleDoctor = "doctor"
)

// DefaultRole назначается при регистрации, если роль не указана
const DefaultRole = RoleDoctor

// CanAccess проверяет владение записью: запись без владельца общая,
// иначе доступна только своему владельцу.
func CanAccess(ownerID *uint, userID uint) bool {
	return ownerID == nil || *ownerID == userID
}
