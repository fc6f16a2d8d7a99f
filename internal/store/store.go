package store

import (
	"errors"
	"log"
	"time"

	"github.com/go-aegis/aegis/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true, // map driver duplicate-key errors to gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Client{},
		&models.AuditLog{},
	); err != nil {
		return nil, err
	}

	store := &Store{db: db}

	// Seed default data
	if err := store.seedData(); err != nil {
		log.Printf("Warning: failed to seed data: %v", err)
	}

	return store, nil
}

func (s *Store) seedData() error {
	// Create default roles if none exist
	var roleCount int64
	s.db.Model(&models.Role{}).Count(&roleCount)
	if roleCount == 0 {
		roles := []models.Role{
			{
				ID:              uuid.New().String(),
				Name:            "member",
				Description:     "Standard member role, attached to every new account",
				AssignByDefault: true,
			},
			{
				ID:          uuid.New().String(),
				Name:        "admin",
				Description: "Administrative role",
				Protected:   true,
			},
		}
		for i := range roles {
			if err := s.db.Create(&roles[i]).Error; err != nil {
				return err
			}
		}
		log.Printf("Created default roles: member (assign by default), admin")
	}

	// Create a sample relying party if none exist
	var clientCount int64
	s.db.Model(&models.Client{}).Count(&clientCount)
	if clientCount == 0 {
		client := &models.Client{
			ClientID:               "aegis-portal",
			ClientName:             "Aegis Portal",
			RedirectURIs:           "http://localhost:8080/signin-callback",
			PostLogoutRedirectURIs: "http://localhost:8080/signed-out",
			IsActive:               true,
		}
		if err := s.db.Create(client).Error; err != nil {
			return err
		}
		log.Printf("Created default relying party: %s (%s)", client.ClientID, client.ClientName)
	}

	return nil
}

// User operations

// GetUserByEmail finds a user by normalized email. Returns
// gorm.ErrRecordNotFound when no user matches.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").
		Where("email = ? AND deleted = ?", models.NormalizeEmail(email), false).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID finds a user by id, excluding soft-deleted accounts.
func (s *Store) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").
		Where("id = ? AND deleted = ?", id, false).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user
func (s *Store) CreateUser(user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailConflict
		}
		return err
	}
	return nil
}

// UpdateUser updates an existing user
func (s *Store) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

// SoftDeleteUser marks a user as deleted without removing the row.
func (s *Store) SoftDeleteUser(id string) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

// SetSecurityStamp updates only the security stamp column.
func (s *Store) SetSecurityStamp(userID, stamp string) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("security_stamp", stamp).Error
}

// SetLockoutState persists the lockout counters after a sign-in attempt.
func (s *Store) SetLockoutState(userID string, failedCount int, lockoutEnd *time.Time) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"failed_sign_in_count": failedCount,
			"lockout_end":          lockoutEnd,
		}).Error
}

// SetEmailConfirmed marks the user's email address as confirmed.
func (s *Store) SetEmailConfirmed(userID string) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("email_confirmed", true).Error
}

// SetPasswordHash replaces the stored password hash.
func (s *Store) SetPasswordHash(userID, hash string) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

// Role operations

// GetRolesByNames returns the roles matching the given names. A missing
// name yields ErrRoleNotFound.
func (s *Store) GetRolesByNames(names []string) ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, err
	}
	if len(roles) != len(names) {
		return nil, ErrRoleNotFound
	}
	return roles, nil
}

// GetDefaultRoles returns all roles flagged AssignByDefault.
func (s *Store) GetDefaultRoles() ([]models.Role, error) {
	var roles []models.Role
	err := s.db.Where("assign_by_default = ?", true).
		Order("name ASC").
		Find(&roles).Error
	return roles, err
}

// AddUserToRoles appends the given roles to the user's role set in one call.
func (s *Store) AddUserToRoles(user *models.User, roles []models.Role) error {
	return s.db.Model(user).Association("Roles").Append(roles)
}

// Client operations

// GetClient finds an active relying party by client id.
func (s *Store) GetClient(clientID string) (*models.Client, error) {
	var client models.Client
	err := s.db.Where("client_id = ? AND is_active = ?", clientID, true).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ListClients returns all registered relying parties.
func (s *Store) ListClients() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateClient registers a new relying party.
func (s *Store) CreateClient(client *models.Client) error {
	return s.db.Create(client).Error
}

// Health checks the database connection
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// DB returns the underlying GORM database connection (for transactions)
func (s *Store) DB() *gorm.DB {
	return s.db
}
