package authn_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/lyceumd/lyceumd/internal/authn"
	"github.com/lyceumd/lyceumd/internal/directory"
	"github.com/lyceumd/lyceumd/internal/roles"
	"github.com/lyceumd/lyceumd/internal/token"
)

type stubDirectory struct {
	records   map[string]*directory.Record
	passwords map[string]string
}

func (s *stubDirectory) Record(ctx context.Context, user string) (*directory.Record, error) {
	if record, ok := s.records[user]; ok {
		return record, nil
	}
	return nil, directory.ErrNotFound
}

func (s *stubDirectory) RoleOf(ctx context.Context, user string) (roles.Role, error) {
	if record, ok := s.records[user]; ok {
		return record.Role, nil
	}
	return "", nil
}

func (s *stubDirectory) List(ctx context.Context, school string) ([]directory.Record, error) {
	return nil, nil
}

func (s *stubDirectory) Search(ctx context.Context, school, term string) ([]directory.Record, error) {
	return nil, nil
}

func (s *stubDirectory) VerifyPassword(ctx context.Context, user, password string) (bool, error) {
	stored, ok := s.passwords[user]
	return ok && stored == password, nil
}

var testSecret = token.Secret("0123456789abcdef0123456789abcdef")

func newService(t *testing.T, dir *stubDirectory) (*authn.Service, *token.RevocationList, *token.Codec) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	revoked := token.NewRevocationList(client)
	codec := token.NewCodec(testSecret, time.Hour)
	return authn.NewService(codec, revoked, dir, dir, nil), revoked, codec
}

func teacherDirectory() *stubDirectory {
	return &stubDirectory{
		records: map[string]*directory.Record{
			"doe": {User: "doe", Role: roles.Teacher, School: "default-school"},
		},
		passwords: map[string]string{"doe": "Muster!"},
	}
}

func TestLoginAuthenticateRoundTrip(t *testing.T) {
	service, _, _ := newService(t, teacherDirectory())
	ctx := context.Background()

	minted, err := service.Login(ctx, "doe", "Muster!")
	require.NoError(t, err)
	require.NotEmpty(t, minted)

	identity, err := service.Authenticate(ctx, minted)
	require.NoError(t, err)
	require.Equal(t, "doe", identity.User)
	require.Equal(t, roles.Teacher, identity.Role)
	require.Equal(t, "default-school", identity.School)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	service, _, _ := newService(t, teacherDirectory())
	ctx := context.Background()

	_, wrongPassword := service.Login(ctx, "doe", "nope")
	_, unknownUser := service.Login(ctx, "ghost", "nope")

	require.ErrorIs(t, wrongPassword, authn.ErrWrongCredentials)
	require.ErrorIs(t, unknownUser, authn.ErrWrongCredentials)
	require.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginNormalizesUsername(t *testing.T) {
	service, _, _ := newService(t, teacherDirectory())

	minted, err := service.Login(context.Background(), "  DOE ", "Muster!")
	require.NoError(t, err)
	require.NotEmpty(t, minted)
}

func TestLoginEmptyCredentials(t *testing.T) {
	service, _, _ := newService(t, teacherDirectory())

	_, err := service.Login(context.Background(), "", "")
	require.ErrorIs(t, err, authn.ErrWrongCredentials)
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	service, _, _ := newService(t, teacherDirectory())

	_, err := service.Authenticate(context.Background(), "not.a.token")
	require.ErrorIs(t, err, authn.ErrInvalidToken)
}

func TestAuthenticateReflectsCurrentDirectoryState(t *testing.T) {
	dir := teacherDirectory()
	service, _, _ := newService(t, dir)
	ctx := context.Background()

	minted, err := service.Login(ctx, "doe", "Muster!")
	require.NoError(t, err)

	// Demote the account after the token was minted.
	dir.records["doe"].Role = roles.Student

	identity, err := service.Authenticate(ctx, minted)
	require.NoError(t, err)
	require.Equal(t, roles.Student, identity.Role)
}

func TestAuthenticateUnknownAccountKeepsNameWithoutRole(t *testing.T) {
	dir := teacherDirectory()
	service, _, _ := newService(t, dir)
	ctx := context.Background()

	minted, err := service.Login(ctx, "doe", "Muster!")
	require.NoError(t, err)

	delete(dir.records, "doe")

	identity, err := service.Authenticate(ctx, minted)
	require.NoError(t, err)
	require.Equal(t, "doe", identity.User)
	require.Empty(t, identity.Role)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	service, revoked, codec := newService(t, teacherDirectory())
	ctx := context.Background()

	minted, err := service.Login(ctx, "doe", "Muster!")
	require.NoError(t, err)

	claims, err := codec.Verify(minted)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time))

	_, err = service.Authenticate(ctx, minted)
	require.ErrorIs(t, err, authn.ErrInvalidToken)
}

func TestNormalizeUsernameFoldsLookalikes(t *testing.T) {
	// U+FF44 FULLWIDTH LATIN SMALL LETTER D normalizes to plain "d".
	require.Equal(t, "doe", authn.NormalizeUsername("ｄoe"))
}
