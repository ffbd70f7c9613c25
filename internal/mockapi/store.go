package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const restaurantsPerPage = 3

var (
	errEmailTaken           = errors.New("There is a user with that email already")
	errUserNotFound         = errors.New("User not found")
	errWrongPassword        = errors.New("Wrong password")
	errVerificationNotFound = errors.New("Verification not found.")
	errForbidden            = errors.New("Forbidden resource")
)

type User struct {
	ID       int
	Email    string
	Role     string
	Verified bool

	passwordHash []byte
}

type Category struct {
	ID       int
	Name     string
	CoverImg string
	Slug     string
}

type Restaurant struct {
	ID         int
	Name       string
	CoverImg   string
	Address    string
	CategoryID int
	IsPromoted bool
}

// Store is the in-memory state behind the mock API.
type Store struct {
	mu sync.RWMutex

	lastUserID    int
	users         map[int]*User
	usersByEmail  map[string]int
	tokens        map[string]int
	verifications map[string]int

	categories  []*Category
	restaurants []*Restaurant
}

func NewStore() *Store {
	return &Store{
		users:         make(map[int]*User),
		usersByEmail:  make(map[string]int),
		tokens:        make(map[string]int),
		verifications: make(map[string]int),
	}
}

// NewSeededStore returns a Store with a small catalog of categories and restaurants.
func NewSeededStore() *Store {
	s := NewStore()
	s.AddCategory(&Category{ID: 1, Name: "Korean", Slug: "korean", CoverImg: "https://nuber.test/img/korean.png"})
	s.AddCategory(&Category{ID: 2, Name: "Pizza", Slug: "pizza", CoverImg: "https://nuber.test/img/pizza.png"})
	s.AddCategory(&Category{ID: 3, Name: "Vegan", Slug: "vegan"})

	for i, r := range []struct {
		name       string
		categoryID int
		promoted   bool
	}{
		{"Bibimbap House", 1, true},
		{"Seoul Kitchen", 1, false},
		{"Napoli Slice", 2, false},
		{"Crust & Co", 2, true},
		{"Green Bowl", 3, false},
	} {
		s.AddRestaurant(&Restaurant{
			ID:         i + 1,
			Name:       r.name,
			CoverImg:   "https://nuber.test/img/restaurant.png",
			Address:    "Main street",
			CategoryID: r.categoryID,
			IsPromoted: r.promoted,
		})
	}
	return s
}

func (s *Store) AddCategory(c *Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

func (s *Store) AddRestaurant(r *Restaurant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restaurants = append(s.restaurants, r)
}

func (s *Store) CreateAccount(email, password, role string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	if _, ok := s.usersByEmail[key]; ok {
		return nil, errEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	s.lastUserID++
	u := &User{
		ID:           s.lastUserID,
		Email:        email,
		Role:         role,
		passwordHash: hash,
	}
	s.users[u.ID] = u
	s.usersByEmail[key] = u.ID
	s.verifications[uuid.NewString()] = u.ID

	return copyUser(u), nil
}

// Login returns a fresh token for the user.
func (s *Store) Login(email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usersByEmail[normalizeEmail(email)]
	if !ok {
		return "", errUserNotFound
	}
	u := s.users[id]
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return "", errWrongPassword
	}

	token := uuid.NewString()
	s.tokens[token] = id
	return token, nil
}

func (s *Store) UserByToken(token string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokens[token]
	if !ok || token == "" {
		return nil, errForbidden
	}
	return copyUser(s.users[id]), nil
}

// EditProfile changes the email and/or the password. A new email resets
// verification and issues a new code.
func (s *Store) EditProfile(userID int, email, password *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return errUserNotFound
	}

	if email != nil && *email != "" && *email != u.Email {
		key := normalizeEmail(*email)
		if other, ok := s.usersByEmail[key]; ok && other != userID {
			return errEmailTaken
		}
		delete(s.usersByEmail, normalizeEmail(u.Email))
		s.usersByEmail[key] = userID
		u.Email = *email
		u.Verified = false
		for code, id := range s.verifications {
			if id == userID {
				delete(s.verifications, code)
			}
		}
		s.verifications[uuid.NewString()] = userID
	}
	if password != nil && *password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		u.passwordHash = hash
	}

	return nil
}

func (s *Store) VerifyEmail(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.verifications[code]
	if !ok {
		return errVerificationNotFound
	}
	s.users[id].Verified = true
	delete(s.verifications, code)
	return nil
}

// VerificationCode returns the pending code for email. The real service mails it.
func (s *Store) VerificationCode(email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[normalizeEmail(email)]
	if !ok {
		return "", false
	}
	for code, userID := range s.verifications {
		if userID == id {
			return code, true
		}
	}
	return "", false
}

type CategoryCount struct {
	*Category
	RestaurantCount int
}

func (s *Store) Categories() []CategoryCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int)
	for _, r := range s.restaurants {
		counts[r.CategoryID]++
	}
	result := make([]CategoryCount, 0, len(s.categories))
	for _, c := range s.categories {
		result = append(result, CategoryCount{Category: c, RestaurantCount: counts[c.ID]})
	}
	return result
}

func (s *Store) category(id int) *Category {
	for _, c := range s.categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Restaurants returns one page (1-origin) of restaurants, promoted ones first.
func (s *Store) Restaurants(page int) (results []*Restaurant, categories map[int]*Category, totalPages, totalResults int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}

	sorted := make([]*Restaurant, len(s.restaurants))
	copy(sorted, s.restaurants)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IsPromoted && !sorted[j].IsPromoted
	})

	totalResults = len(sorted)
	totalPages = (totalResults + restaurantsPerPage - 1) / restaurantsPerPage

	categories = make(map[int]*Category)
	start := (page - 1) * restaurantsPerPage
	for i := start; i < totalResults && i < start+restaurantsPerPage; i++ {
		results = append(results, sorted[i])
		if c := s.category(sorted[i].CategoryID); c != nil {
			categories[c.ID] = c
		}
	}
	return results, categories, totalPages, totalResults
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func copyUser(u *User) *User {
	copied := *u
	return &copied
}
