package v1

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/adanyl0v/task-tracker/internal/models"
	"github.com/adanyl0v/task-tracker/internal/services"
)

// memoryDB backs the user and task fakes so that deleting a user
// removes the user's tasks the way the foreign key does.
type memoryDB struct {
	mu         sync.Mutex
	hasher     services.PasswordHasher
	users      map[int64]*models.User
	tasks      map[int64]*models.Task
	nextUserID int64
	nextTaskID int64
	clock      time.Time
	failWith   error
}

func newMemoryDB(hasher services.PasswordHasher) *memoryDB {
	return &memoryDB{
		hasher: hasher,
		users:  make(map[int64]*models.User),
		tasks:  make(map[int64]*models.Task),
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (db *memoryDB) now() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

type fakeUserService struct {
	db *memoryDB
}

func (s fakeUserService) Create(_ context.Context, params services.CreateUserParams) (*models.User, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return nil, db.failWith
	}

	hash, err := db.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	db.nextUserID++
	now := db.now()
	user := &models.User{
		ID:        db.nextUserID,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Username:  params.Username,
		Email:     params.Email,
		Password:  hash,
		Role:      params.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.users[user.ID] = user
	copied := *user
	return &copied, nil
}

func (s fakeUserService) find(match func(*models.User) bool) (*models.User, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return nil, db.failWith
	}

	for _, u := range db.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, services.ErrUserNotFound
}

func (s fakeUserService) GetByID(_ context.Context, id int64) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ID == id })
}

func (s fakeUserService) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Username == username })
}

func (s fakeUserService) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Email == email })
}

func (s fakeUserService) List(_ context.Context) ([]*models.User, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return nil, db.failWith
	}

	users := make([]*models.User, 0, len(db.users))
	for _, u := range db.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (s fakeUserService) Update(_ context.Context, params services.UpdateUserParams) (*models.User, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return nil, db.failWith
	}

	user, ok := db.users[params.ID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Password != nil {
		hash, err := db.hasher.Hash(*params.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	user.UpdatedAt = db.now()

	copied := *user
	return &copied, nil
}

func (s fakeUserService) Delete(_ context.Context, id int64) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return db.failWith
	}

	if _, ok := db.users[id]; !ok {
		return services.ErrUserNotFound
	}
	delete(db.users, id)
	for taskID, task := range db.tasks {
		if task.UserID == id {
			delete(db.tasks, taskID)
		}
	}
	return nil
}

type fakeTaskService struct {
	db *memoryDB
}

// withOwner must be called with the lock held.
func (s fakeTaskService) withOwner(task *models.Task) *models.Task {
	copied := *task
	if owner, ok := s.db.users[task.UserID]; ok {
		copied.Username = owner.Username
		copied.FirstName = owner.FirstName
		copied.LastName = owner.LastName
	}
	return &copied
}

func (s fakeTaskService) Create(_ context.Context, userID int64, body string) (*models.Task, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return nil, db.failWith
	}

	if _, ok := db.users[userID]; !ok {
		return nil, errors.New("owner does not exist")
	}
	db.nextTaskID++
	now := db.now()
	task := &models.Task{
		ID:        db.nextTaskID,
		UserID:    userID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.tasks[task.ID] = task
	return s.withOwner(task), nil
}

func (s fakeTaskService) GetByID(_ context.Context, id int64) (*models.Task, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return nil, db.failWith
	}

	task, ok := db.tasks[id]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	return s.withOwner(task), nil
}

func (s fakeTaskService) list(match func(*models.Task) bool) ([]*models.Task, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return nil, db.failWith
	}

	tasks := make([]*models.Task, 0)
	for _, task := range db.tasks {
		if match(task) {
			tasks = append(tasks, s.withOwner(task))
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID > tasks[j].ID })
	return tasks, nil
}

func (s fakeTaskService) ListByUserID(_ context.Context, userID int64) ([]*models.Task, error) {
	return s.list(func(t *models.Task) bool { return t.UserID == userID })
}

func (s fakeTaskService) List(_ context.Context) ([]*models.Task, error) {
	return s.list(func(*models.Task) bool { return true })
}

func (s fakeTaskService) Update(_ context.Context, id int64, body string) (*models.Task, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return nil, db.failWith
	}

	task, ok := db.tasks[id]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	task.Body = body
	task.UpdatedAt = db.now()
	return s.withOwner(task), nil
}

func (s fakeTaskService) Delete(_ context.Context, id int64) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failWith != nil {
		return db.failWith
	}

	if _, ok := db.tasks[id]; !ok {
		return services.ErrTaskNotFound
	}
	delete(db.tasks, id)
	return nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}
