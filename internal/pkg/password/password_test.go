package password

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yatraone/transit-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("S3cret!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "S3cret!pass", hash)
	assert.True(t, h.Compare(hash, "S3cret!pass"))
	assert.False(t, h.Compare(hash, "S3cret!pasS"))
}

func TestHasher_CompareMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.Compare("", "anything"))
	assert.False(t, h.Compare("not-a-bcrypt-hash", "anything"))
}

func TestNewHasher_OutOfRangeCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
}

func TestValidatePolicy(t *testing.T) {
	cases := []struct {
		pw   string
		ok   bool
		miss string
	}{
		{"Str0ng!pw", true, ""},
		{"Sh0rt!", false, "8 characters"},
		{"alllower1!", false, "uppercase"},
		{"ALLUPPER1!", false, "lowercase"},
		{"NoDigits!!", false, "number"},
		{"NoSpecial12", false, "special"},
	}
	for _, tc := range cases {
		t.Run(tc.pw, func(t *testing.T) {
			err := ValidatePolicy(tc.pw)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsWeak(err))
			assert.ErrorIs(t, err, domain.NewError(domain.CodeWeakPassword, ""))
			assert.Contains(t, err.Error(), tc.miss)
		})
	}
}

func TestValidatePolicy_ByteLimit(t *testing.T) {
	// 44 runes but 84 bytes: passes a rune-counting max=72 yet bcrypt refuses it.
	multibyte := "Aa1!" + strings.Repeat("é", 40)
	require.LessOrEqual(t, utf8.RuneCountInString(multibyte), MaxBytes)

	err := ValidatePolicy(multibyte)
	require.Error(t, err)
	assert.True(t, IsWeak(err))
	assert.Contains(t, err.Error(), "72 bytes")

	atLimit := "Aa1!" + strings.Repeat("x", MaxBytes-4)
	require.NoError(t, ValidatePolicy(atLimit))
	_, err = NewHasher(4).Hash(atLimit)
	assert.NoError(t, err)
}
