package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	user := &domain.User{ID: "u-1", Email: "ana@example.com", Role: domain.UserRoleAdmin}

	raw, meta, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, meta.ID)
	assert.WithinDuration(t, meta.IssuedAt.Add(time.Hour), meta.ExpiresAt, time.Second)

	claims, err := tm.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, domain.UserRoleAdmin, claims.Role)
	assert.Equal(t, meta.ID, claims.ID)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	raw, _, err := NewTokenManager("one", 60).GenerateToken(&domain.User{ID: "u"})
	require.NoError(t, err)

	_, err = NewTokenManager("two", 60).ParseToken(raw)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	issued := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return issued }
	raw, _, err := tm.GenerateToken(&domain.User{ID: "u"})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(raw)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "s3cret!"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer   abc ", "abc", false},
		{"", "", true},
		{"Basic abc", "", true},
		{"Bearer ", "", true},
	}
	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if tt.wantErr {
			assert.True(t, errorutil.IsCode(err, errorutil.CodeUnauthorized), tt.header)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
