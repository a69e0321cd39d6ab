package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/KelvenPer/Aura/internal/auth"
	"github.com/KelvenPer/Aura/internal/models"
	"github.com/KelvenPer/Aura/internal/repositories"

	"gorm.io/gorm"
)

// =========================================================================
// Users
// =========================================================================

// UserStore - in-memory repositories.UserRepository. Возвращает копии,
// чтобы тесты не меняли хранимые записи случайно.
type UserStore struct {
	mu     sync.Mutex
	users  map[uint]models.User
	nextID uint

	// Err, если задан, возвращается из всех методов
	Err error
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uint]models.User), nextID: 1}
}

var _ repositories.UserRepository = (*UserStore)(nil)

func (s *UserStore) FindByID(_ *gorm.DB, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *UserStore) FindByLicenseID(_ *gorm.DB, licenseID string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.LicenseID != nil && *u.LicenseID == licenseID })
}

func (s *UserStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (s *UserStore) Create(_ *gorm.DB, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
		if u.LicenseID != nil && user.LicenseID != nil && *u.LicenseID == *user.LicenseID {
			return repositories.ErrLicenseTaken
		}
	}
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Save(_ *gorm.DB, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) UpdatePassword(_ *gorm.DB, userID uint, passwordHash string) error {
	return s.update(userID, func(u *models.User) { u.PasswordHash = passwordHash })
}

func (s *UserStore) UpdateLastLogin(_ *gorm.DB, userID uint, at time.Time) error {
	return s.update(userID, func(u *models.User) { u.LastLogin = &at })
}

func (s *UserStore) update(userID uint, fn func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	u, ok := s.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	fn(&u)
	s.users[userID] = u
	return nil
}

// Delete удаляет пользователя напрямую (имитация удаления вне API)
func (s *UserStore) Delete(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}

// SetActive переключает флаг is_active напрямую
func (s *UserStore) SetActive(userID uint, active bool) {
	_ = s.update(userID, func(u *models.User) { u.IsActive = active })
}

// Put сохраняет пользователя с хешем пароля, полученным от hasher
func (s *UserStore) Put(hasher auth.PasswordHasher, email, password string) *models.User {
	digest, err := hasher.Hash(password)
	if err != nil {
		panic(err)
	}
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: digest,
		Role:         auth.DefaultRole,
		IsActive:     true,
	}
	if err := s.Create(nil, user); err != nil {
		panic(err)
	}
	return user
}

// =========================================================================
// Password reset tokens
// =========================================================================

// ResetTokenStore - in-memory repositories.PasswordResetRepository
type ResetTokenStore struct {
	mu     sync.Mutex
	tokens []models.PasswordResetToken
	nextID uint

	Err error
	// BeforeMarkUsed вызывается перед условным UPDATE (для имитации гонки)
	BeforeMarkUsed func(tokenID uint)
}

func NewResetTokenStore() *ResetTokenStore {
	return &ResetTokenStore{nextID: 1}
}

var _ repositories.PasswordResetRepository = (*ResetTokenStore)(nil)

func (s *ResetTokenStore) Create(_ *gorm.DB, token *models.PasswordResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	token.ID = s.nextID
	s.nextID++
	s.tokens = append(s.tokens, *token)
	return nil
}

func (s *ResetTokenStore) ListUnusedForUser(_ *gorm.DB, userID uint) ([]models.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.PasswordResetToken
	for _, t := range s.tokens {
		if t.UserID == userID && !t.Used {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *ResetTokenStore) MarkUsed(_ *gorm.DB, tokenID uint) (bool, error) {
	if s.BeforeMarkUsed != nil {
		s.BeforeMarkUsed(tokenID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for i := range s.tokens {
		if s.tokens[i].ID == tokenID && !s.tokens[i].Used {
			s.tokens[i].Used = true
			return true, nil
		}
	}
	return false, nil
}

func (s *ResetTokenStore) InvalidateForUser(_ *gorm.DB, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for i := range s.tokens {
		if s.tokens[i].UserID == userID && !s.tokens[i].Used {
			s.tokens[i].Used = true
			n++
		}
	}
	return n, nil
}

func (s *ResetTokenStore) PurgeExpired(_ *gorm.DB, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	kept := s.tokens[:0]
	var n int64
	for _, t := range s.tokens {
		if t.ExpiresAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, t)
	}
	s.tokens = kept
	return n, nil
}

// All возвращает копию всех кодов в порядке создания
func (s *ResetTokenStore) All() []models.PasswordResetToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PasswordResetToken, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// =========================================================================
// Clinic records
// =========================================================================

func visible(ownerID *uint, userID uint) bool {
	return ownerID == nil || *ownerID == userID
}

// PatientStore - in-memory repositories.PatientRepository
type PatientStore struct {
	mu       sync.Mutex
	patients []models.Patient
	nextID   uint

	Err error
}

func NewPatientStore() *PatientStore {
	return &PatientStore{nextID: 1}
}

var _ repositories.PatientRepository = (*PatientStore)(nil)

func (s *PatientStore) Create(_ *gorm.DB, patient *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if patient.CPF != nil {
		for _, p := range s.patients {
			if p.CPF != nil && *p.CPF == *patient.CPF {
				return repositories.ErrCPFTaken
			}
		}
	}
	patient.ID = s.nextID
	s.nextID++
	s.patients = append(s.patients, *patient)
	return nil
}

func (s *PatientStore) FindByID(_ *gorm.DB, id uint) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.patients {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repositories.ErrPatientNotFound
}

func (s *PatientStore) ListVisible(_ *gorm.DB, userID uint) ([]models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.Patient
	for _, p := range s.patients {
		if visible(p.OwnerID, userID) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// AppointmentStore - in-memory repositories.AppointmentRepository.
// Пациента подставляет из PatientStore, как Preload("Patient").
type AppointmentStore struct {
	mu           sync.Mutex
	appointments []models.Appointment
	nextID       uint
	patients     *PatientStore

	Err error
}

func NewAppointmentStore(patients *PatientStore) *AppointmentStore {
	return &AppointmentStore{nextID: 1, patients: patients}
}

var _ repositories.AppointmentRepository = (*AppointmentStore)(nil)

func (s *AppointmentStore) Create(_ *gorm.DB, appointment *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	appointment.ID = s.nextID
	s.nextID++
	stored := *appointment
	stored.Patient = models.Patient{}
	s.appointments = append(s.appointments, stored)
	return nil
}

func (s *AppointmentStore) ListVisible(_ *gorm.DB, userID uint, filter repositories.AppointmentFilter) ([]models.Appointment, error) {
	s.mu.Lock()
	if s.Err != nil {
		s.mu.Unlock()
		return nil, s.Err
	}
	var out []models.Appointment
	for _, a := range s.appointments {
		if !visible(a.OwnerID, userID) {
			continue
		}
		if filter.From != nil && a.StartsAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.StartsAt.After(*filter.To) {
			continue
		}
		out = append(out, a)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		if p, err := s.patients.FindByID(nil, out[i].PatientID); err == nil {
			out[i].Patient = *p
		}
	}
	return out, nil
}

// TransactionStore - in-memory repositories.TransactionRepository
type TransactionStore struct {
	mu           sync.Mutex
	transactions []models.Transaction
	nextID       uint

	Err error
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{nextID: 1}
}

var _ repositories.TransactionRepository = (*TransactionStore)(nil)

func (s *TransactionStore) Create(_ *gorm.DB, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	tx.ID = s.nextID
	s.nextID++
	s.transactions = append(s.transactions, *tx)
	return nil
}

func (s *TransactionStore) ListVisible(_ *gorm.DB, userID uint) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.Transaction
	for _, t := range s.transactions {
		if visible(t.OwnerID, userID) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CompetenceDate.Equal(out[j].CompetenceDate) {
			return out[i].CompetenceDate.After(out[j].CompetenceDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
