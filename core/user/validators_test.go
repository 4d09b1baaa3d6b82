package user

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtahfidz/backend/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	LoadCommonPasswords(nopLogger{})
	return validate
}

func failedTags(err error) []string {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(vErrs))
	for _, e := range vErrs {
		tags = append(tags, e.Tag())
	}
	return tags
}

func TestPasswordPolicy(t *testing.T) {
	validate := newTestValidator()

	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "too short", pwd: "Ab1!", wantTag: pwdMinLenTag},
		{name: "whitespace", pwd: "Abcd 1234!", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", wantTag: pwdNotAllNumTag},
		{name: "no special char", pwd: "Abcdefg123", wantTag: pwdComplexityTag},
		{name: "no upper char", pwd: "abcdefg123!", wantTag: pwdComplexityTag},
		{name: "similar to name", pwd: "Fatimah.Zahra1", wantTag: pwdAttrSimTag},
		{name: "similar to email", pwd: "Zahra.Guru1", wantTag: pwdAttrSimTag},
		{name: "too common", pwd: "P@ssw0rd", wantTag: pwdNoCommonTag},
		{name: "valid", pwd: "Kh4tam!Quran#30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := NewUser{
				Name:     "Fatimah Zahra",
				Email:    "zahra.guru@simtahfidz.test",
				Password: tt.pwd,
			}
			err := validate.Struct(nu)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, []string{tt.wantTag}, failedTags(err))
		})
	}
}

func TestPasswordPolicySkipped(t *testing.T) {
	validate := newTestValidator()

	nu := NewUser{Name: "Santri", Email: "santri@simtahfidz.test", Password: "x7k2m9q4p1", SkipPasswordPolicy: true}
	assert.NoError(t, validate.Struct(nu))
}

func TestAllRolesValidation(t *testing.T) {
	validate := newTestValidator()

	valid := NewUser{Name: "Guru", Email: "guru@simtahfidz.test", Password: "Kh4tam!Quran#30", Roles: []string{RoleGuru}}
	assert.NoError(t, validate.Struct(valid))

	invalid := valid
	invalid.Roles = []string{RoleGuru, "superuser"}
	assert.Equal(t, []string{allRolesTag}, failedTags(validate.Struct(invalid)))
}

func TestMaxRolePriority(t *testing.T) {
	assert.Equal(t, 0, MaxRolePriority(nil))
	assert.Equal(t, RolePriority(RoleGuru), MaxRolePriority([]string{RoleSantri, RoleGuru}))
	assert.Equal(t, RolePriority(RoleAdmin), MaxRolePriority([]string{RoleAdmin, RoleGuru}))
}

func TestSessionIsExpired(t *testing.T) {
	sess := Session{ExpiresAt: mustTime(t, "2024-03-01T10:00:00Z")}
	assert.False(t, sess.IsExpired(mustTime(t, "2024-03-01T09:59:59Z")))
	assert.True(t, sess.IsExpired(mustTime(t, "2024-03-01T10:00:00Z")))
}

func mustTime(t *testing.T, s string) time.Time {
	tm, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return tm
}
