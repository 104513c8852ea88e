package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
)

type userRepositoryImpl struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepositoryImpl{store: store}
}

func findByUsername(st *state, username string) (user.User, bool) {
	for _, u := range st.users {
		if u.Username == username {
			return u, true
		}
	}
	return user.User{}, false
}

// GetByUsername implements user.UserRepository.
func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var (
		u  user.User
		ok bool
	)
	r.store.view(func(st *state) {
		u, ok = findByUsername(st, username)
	})
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	var (
		u  user.User
		ok bool
	)
	r.store.view(func(st *state) {
		u, ok = st.users[id]
	})
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	var list []user.User
	r.store.view(func(st *state) {
		list = make([]user.User, 0, len(st.users))
		for _, u := range st.users {
			list = append(list, u)
		}
	})
	sortUsers(list)
	return list, nil
}

// Count implements user.UserRepository.
func (r *userRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	r.store.view(func(st *state) {
		count = int64(len(st.users))
	})
	return count, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	err := r.store.mutate(func(st *state) error {
		if _, exists := findByUsername(st, newUser.Username); exists {
			return user.ErrUsernameExists
		}
		if _, exists := st.users[newUser.ID]; exists {
			return user.ErrUsernameExists
		}
		st.users[newUser.ID] = newUser
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return newUser, nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.store.mutate(func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return user.ErrUserNotFound
		}
		u.PasswordHash = passwordHash
		u.UpdatedAt = time.Now().UTC()
		st.users[userID] = u
		return nil
	})
}
