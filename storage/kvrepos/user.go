package kvrepos

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/user"
	"github.com/brightpath/academia/storage/kv"
)

type userRepository struct {
	mu     sync.RWMutex
	st     kv.Store
	logger core.Logger
	seed   []user.User
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(st kv.Store, logger core.Logger, seed []user.User) user.Repository {
	return &userRepository{st: st, logger: logger, seed: seed}
}

func (repo *userRepository) load() []user.User {
	var users []user.User
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyUsers, &users, repo.seed)
	return users
}

func (repo *userRepository) save(users []user.User) error {
	return kv.SaveSlice(context.Background(), repo.st, keyUsers, users)
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	exclUsrsLen := len(excludedUsers)
	if exclUsrsLen > 1 {
		sort.Slice(excludedUsers, func(i, j int) bool { return excludedUsers[i].ID < excludedUsers[j].ID })
	}

	for _, usr := range repo.load() {
		if isExcluded(usr, excludedUsers, exclUsrsLen) {
			continue
		}
		if username != "" && usr.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	usr.ID = uuid.NewString()
	users := append(repo.load(), usr)
	if err := repo.save(users); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.load(), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.load() {
		if usr.ID == id {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.load() {
		if usr.Username == username {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.load() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByLogin(login string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	lowered := strings.ToLower(login)
	for _, usr := range repo.load() {
		if usr.Username == lowered || usr.Email == lowered {
			return usr, nil
		}
		if usr.StudentID != "" && strings.EqualFold(usr.StudentID, login) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var matches []user.User
	search := strings.ToLower(filter.Search)
	for _, usr := range repo.load() {
		if search != "" &&
			!strings.Contains(strings.ToLower(usr.Name), search) &&
			!strings.Contains(usr.Username, search) &&
			!strings.Contains(usr.Email, search) {
			continue
		}
		if filter.Roles != nil && !hasAnyRolePrefix(usr, filter.Roles) {
			continue
		}
		if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
			continue
		}
		if !filter.CreatedFrom.IsZero() && usr.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedTo.IsZero() && usr.CreatedAt.After(filter.CreatedTo) {
			continue
		}
		matches = append(matches, usr)
	}
	return matches, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users := repo.load()
	for i := range users {
		if users[i].ID != usr.ID {
			continue
		}
		// only save set fields
		orig := &users[i]
		if usr.Roles != nil {
			orig.Roles = usr.Roles
		}
		if usr.PasswordHash != nil {
			orig.PasswordHash = usr.PasswordHash
		}
		if isActive != nil {
			orig.IsActive = *isActive
		}
		if usr.Name != "" {
			orig.Name = usr.Name
		}
		if usr.Username != "" {
			orig.Username = usr.Username
		}
		if usr.Email != "" {
			orig.Email = usr.Email
		}
		if !usr.LastLogin.IsZero() {
			orig.LastLogin = usr.LastLogin
		}
		orig.UpdatedAt = usr.UpdatedAt
		if err := repo.save(users); err != nil {
			return user.User{}, err
		}
		return *orig, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users := repo.load()
	kept := users[:0]
	for _, usr := range users {
		var drop bool
		for _, id := range ids {
			if usr.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, usr)
		}
	}
	return repo.save(kept)
}

func hasAnyRolePrefix(usr user.User, roles []string) bool {
	for _, role := range roles {
		if usr.RoleStartsWith(role) {
			return true
		}
	}
	return false
}

func isExcluded(usr user.User, excludedUsers []user.User, n int) bool {
	if n <= 0 {
		return false
	}
	idx := sort.Search(n, func(i int) bool { return excludedUsers[i].ID >= usr.ID })
	return idx < n && excludedUsers[idx].ID == usr.ID
}
