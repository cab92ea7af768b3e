package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories is the container for all repository instances
type Repositories struct {
	AlumniRepository *AlumniRepository
	UserRepository   *UserRepository
}

// NewRepositories creates all repositories over one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AlumniRepository: NewAlumniRepository(db),
		UserRepository:   NewUserRepository(db),
	}
}
