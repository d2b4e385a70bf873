package social

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLinkStore is a mock implementation of LinkStore.
type MockLinkStore struct {
	mock.Mock
}

func (m *MockLinkStore) CreateLink(ctx context.Context, key IdentityKey, accountID string) error {
	args := m.Called(ctx, key, accountID)
	return args.Error(0)
}

func (m *MockLinkStore) FindAccountID(ctx context.Context, key IdentityKey) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockLinkStore) DeleteLink(ctx context.Context, key IdentityKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockLinkStore) LinksForAccount(ctx context.Context, accountID string) ([]IdentityLink, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]IdentityLink), args.Error(1)
}

// MockStateStore is a mock implementation of StateStore.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) StoreState(ctx context.Context, state string, expiresAt time.Time) error {
	args := m.Called(ctx, state, expiresAt)
	return args.Error(0)
}

func (m *MockStateStore) ConsumeState(ctx context.Context, state string) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// MockAccountDirectory is a mock implementation of AccountDirectory.
type MockAccountDirectory struct {
	mock.Mock
}

func (m *MockAccountDirectory) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountDirectory) CreateAccount(ctx context.Context, id, password string) (*Account, error) {
	args := m.Called(ctx, id, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountDirectory) SetDisplayName(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockAccountDirectory) SetEmail(ctx context.Context, id, email string) error {
	args := m.Called(ctx, id, email)
	return args.Error(0)
}

// MockSessionManager is a mock implementation of SessionManager.
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) State(ctx context.Context) SessionState {
	args := m.Called(ctx)
	return args.Get(0).(SessionState)
}

func (m *MockSessionManager) CompleteLogin(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockSessionManager) IssueToken(ctx context.Context, accountID string) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

// MockSettings is a mock implementation of Settings.
type MockSettings struct {
	mock.Mock
}

func (m *MockSettings) AppSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettings) DeleteUserSetting(ctx context.Context, accountID, key string) error {
	args := m.Called(ctx, accountID, key)
	return args.Error(0)
}

// MockURLBuilder is a mock implementation of URLBuilder.
type MockURLBuilder struct {
	mock.Mock
}

func (m *MockURLBuilder) CallbackURL(flow, provider string) string {
	args := m.Called(flow, provider)
	return args.String(0)
}

func (m *MockURLBuilder) SettingsURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockURLBuilder) RootURL() string {
	args := m.Called()
	return args.String(0)
}

// MockGroupDirectory is a mock implementation of GroupDirectory.
type MockGroupDirectory struct {
	mock.Mock
}

func (m *MockGroupDirectory) Group(ctx context.Context, name string) (Group, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Group), args.Error(1)
}

// MockGroup is a mock implementation of Group.
type MockGroup struct {
	mock.Mock
}

func (m *MockGroup) AddMember(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockAvatarImporter is a mock implementation of AvatarImporter.
type MockAvatarImporter struct {
	mock.Mock
}

func (m *MockAvatarImporter) Import(ctx context.Context, accountID, photoURL string) error {
	args := m.Called(ctx, accountID, photoURL)
	return args.Error(0)
}

// MockAdapter is a mock implementation of ProviderAdapter.
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAdapter) AuthURL(ctx context.Context, state string) (string, error) {
	args := m.Called(ctx, state)
	return args.String(0), args.Error(1)
}

func (m *MockAdapter) Authenticate(ctx context.Context, code string) (Profile, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(Profile), args.Error(1)
}
