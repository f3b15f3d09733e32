package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/mocks"
	"github.com/phrazzld/bookshelf-api/internal/service"
	"github.com/phrazzld/bookshelf-api/internal/service/auth"
	"github.com/phrazzld/bookshelf-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountFixture struct {
	svc         *service.AccountService
	credentials *mocks.MockCredentialStore
	profiles    *mocks.MockProfileStore
	codec       *mocks.MockTokenCodec
}

func newAccountFixture(t *testing.T, authn service.Authenticator) *accountFixture {
	t.Helper()
	db, _ := newTxDB(t)

	f := &accountFixture{
		credentials: &mocks.MockCredentialStore{},
		profiles:    &mocks.MockProfileStore{},
		codec:       &mocks.MockTokenCodec{Token: "signed.jwt.token"},
	}
	if authn == nil {
		authn = authenticatorFunc(func(context.Context, string, string) (*auth.Identity, error) {
			return nil, errors.New("unexpected call")
		})
	}

	svc, err := service.NewAccountService(db, f.credentials, f.profiles, authn, f.codec,
		&mocks.MockPasswordVerifier{}, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("issues a token for the authenticated identity", func(t *testing.T) {
		t.Parallel()
		authn := authenticatorFunc(func(_ context.Context, username, password string) (*auth.Identity, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, "s3cret", password)
			return &auth.Identity{Username: "alice", PasswordHash: "h", Authorities: []string{}}, nil
		})
		f := newAccountFixture(t, authn)

		res, err := f.svc.Login(context.Background(), "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, &service.LoginResult{
			Username: "alice",
			Message:  "User logged in correctly",
			JWT:      "signed.jwt.token",
			Status:   true,
		}, res)
		assert.Equal(t, []string{"alice"}, f.codec.IssuedFor)
	})

	t.Run("surrounding whitespace is trimmed from the username", func(t *testing.T) {
		t.Parallel()
		authn := authenticatorFunc(func(_ context.Context, username, _ string) (*auth.Identity, error) {
			assert.Equal(t, "alice", username)
			return &auth.Identity{Username: "alice", Authorities: []string{}}, nil
		})
		f := newAccountFixture(t, authn)

		res, err := f.svc.Login(context.Background(), "  alice\t", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "alice", res.Username)
	})

	t.Run("authentication failures propagate unchanged", func(t *testing.T) {
		t.Parallel()
		for _, want := range []error{auth.ErrUnknownUser, auth.ErrBadCredentials} {
			authn := authenticatorFunc(func(context.Context, string, string) (*auth.Identity, error) {
				return nil, want
			})
			f := newAccountFixture(t, authn)

			_, err := f.svc.Login(context.Background(), "alice", "nope")
			assert.Equal(t, want, err)
			assert.Empty(t, f.codec.IssuedFor)
		}
	})

	t.Run("token signing failure is unexpected", func(t *testing.T) {
		t.Parallel()
		authn := authenticatorFunc(func(context.Context, string, string) (*auth.Identity, error) {
			return &auth.Identity{Username: "alice"}, nil
		})
		f := newAccountFixture(t, authn)
		f.codec.Err = errors.New("hmac exploded")

		_, err := f.svc.Login(context.Background(), "alice", "s3cret")
		var svcErr *service.ServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func registerRequest() service.RegisterRequest {
	birth := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	return service.RegisterRequest{
		Name:      "Alice",
		BirthDate: &birth,
		Username:  "alice",
		Password:  "s3cret",
		Email:     "a@x.com",
	}
}

func TestRegister_CreatesCredentialAndProfileAtomically(t *testing.T) {
	t.Parallel()

	db, sqlMock := newTxDB(t)
	creds := &mocks.MockCredentialStore{}
	profiles := &mocks.MockProfileStore{}
	svc, err := service.NewAccountService(db, creds, profiles,
		authenticatorFunc(nil), &mocks.MockTokenCodec{}, &mocks.MockPasswordVerifier{}, nil)
	require.NoError(t, err)

	var created *domain.Credential
	creds.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	creds.On("ExistsByEmail", mock.Anything, "a@x.com").Return(false, nil)
	creds.On("Create", mock.Anything, mock.AnythingOfType("*domain.Credential")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Credential) }).
		Return(nil)
	profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
		return created != nil && p.ID == created.ID && p.Username == "alice" &&
			p.Name == "Alice" && len(p.BookIDs) == 0
	})).Return(nil)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	res, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, &service.RegisterResult{
		Username: "alice",
		Email:    "a@x.com",
		Message:  "User successfully registered",
		Status:   true,
	}, res)

	require.NotNil(t, created)
	assert.Equal(t, "hashed:s3cret", created.HashedPassword)
	assert.True(t, created.Enabled)
	assert.True(t, created.AccountNonExpired)
	assert.True(t, created.AccountNonLocked)
	assert.True(t, created.CredentialsNonExpired)
	creds.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestRegister_UniquenessChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		usernameTaken bool
		emailTaken    bool
		want          error
	}{
		{"username taken", true, false, service.ErrUsernameTaken},
		{"email taken", false, true, service.ErrEmailTaken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, _ := newTxDB(t)
			creds := &mocks.MockCredentialStore{}
			profiles := &mocks.MockProfileStore{}
			svc, err := service.NewAccountService(db, creds, profiles,
				authenticatorFunc(nil), &mocks.MockTokenCodec{}, &mocks.MockPasswordVerifier{}, nil)
			require.NoError(t, err)

			creds.On("ExistsByUsername", mock.Anything, "alice").Return(tc.usernameTaken, nil)
			creds.On("ExistsByEmail", mock.Anything, "a@x.com").Return(tc.emailTaken, nil).Maybe()

			_, err = svc.Register(context.Background(), registerRequest())
			assert.ErrorIs(t, err, tc.want)
			creds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_UniquenessChecksUseTrimmedValues(t *testing.T) {
	t.Parallel()

	db, sqlMock := newTxDB(t)
	creds := &mocks.MockCredentialStore{}
	profiles := &mocks.MockProfileStore{}
	svc, err := service.NewAccountService(db, creds, profiles,
		authenticatorFunc(nil), &mocks.MockTokenCodec{}, &mocks.MockPasswordVerifier{}, nil)
	require.NoError(t, err)

	creds.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil).Once()
	creds.On("ExistsByEmail", mock.Anything, "a@x.com").Return(false, nil).Once()
	creds.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Credential) bool {
		return c.Username == "alice" && c.Email == "a@x.com"
	})).Return(nil)
	profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.Username == "alice"
	})).Return(nil)
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	req := registerRequest()
	req.Username = " alice "
	req.Email = "\ta@x.com "
	res, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "a@x.com", res.Email)
	creds.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestRegister_TrimmedUsernameCollisionIsTaken(t *testing.T) {
	t.Parallel()

	db, _ := newTxDB(t)
	creds := &mocks.MockCredentialStore{}
	profiles := &mocks.MockProfileStore{}
	svc, err := service.NewAccountService(db, creds, profiles,
		authenticatorFunc(nil), &mocks.MockTokenCodec{}, &mocks.MockPasswordVerifier{}, nil)
	require.NoError(t, err)

	creds.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)

	req := registerRequest()
	req.Username = "alice "
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
	creds.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	creds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_ProfileFailureRollsBack(t *testing.T) {
	t.Parallel()

	db, sqlMock := newTxDB(t)
	creds := &mocks.MockCredentialStore{}
	profiles := &mocks.MockProfileStore{}
	svc, err := service.NewAccountService(db, creds, profiles,
		authenticatorFunc(nil), &mocks.MockTokenCodec{}, &mocks.MockPasswordVerifier{}, nil)
	require.NoError(t, err)

	creds.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	creds.On("ExistsByEmail", mock.Anything, "a@x.com").Return(false, nil)
	creds.On("Create", mock.Anything, mock.Anything).Return(nil)
	profiles.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	_, err = svc.Register(context.Background(), registerRequest())
	require.Error(t, err)
	var svcErr *service.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestRegister_ConstraintRaceMapsToTaken(t *testing.T) {
	t.Parallel()

	db, sqlMock := newTxDB(t)
	creds := &mocks.MockCredentialStore{}
	profiles := &mocks.MockProfileStore{}
	svc, err := service.NewAccountService(db, creds, profiles,
		authenticatorFunc(nil), &mocks.MockTokenCodec{}, &mocks.MockPasswordVerifier{}, nil)
	require.NoError(t, err)

	creds.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	creds.On("ExistsByEmail", mock.Anything, "a@x.com").Return(false, nil)
	creds.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	_, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, service.ErrEmailTaken)
	profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	future := time.Now().Add(48 * time.Hour)
	tests := []struct {
		name   string
		mutate func(*service.RegisterRequest)
	}{
		{"invalid email", func(r *service.RegisterRequest) { r.Email = "not-an-email" }},
		{"blank password", func(r *service.RegisterRequest) { r.Password = " " }},
		{"future birth date", func(r *service.RegisterRequest) { r.BirthDate = &future }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, _ := newTxDB(t)
			creds := &mocks.MockCredentialStore{}
			hasher := &mocks.MockPasswordVerifier{HashFn: func(pw string) (string, error) {
				if err := domain.ValidatePassword(pw); err != nil {
					return "", err
				}
				return "hashed", nil
			}}
			svc, err := service.NewAccountService(db, creds, &mocks.MockProfileStore{},
				authenticatorFunc(nil), &mocks.MockTokenCodec{}, hasher, nil)
			require.NoError(t, err)

			req := registerRequest()
			tc.mutate(&req)
			creds.On("ExistsByUsername", mock.Anything, mock.Anything).Return(false, nil)
			creds.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)

			_, err = svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrValidation)
			creds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestNewAccountService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := service.NewAccountService(nil, &mocks.MockCredentialStore{}, &mocks.MockProfileStore{},
		authenticatorFunc(nil), &mocks.MockTokenCodec{}, &mocks.MockPasswordVerifier{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
