package contract

type IHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordHash(password, hashedPassword string) error
	// HashString hashes long opaque strings such as refresh tokens (SHA256).
	HashString(s string) string
	CheckHash(s, hash string) bool
}
