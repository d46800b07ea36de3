package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/appboilerplate/taskmanager/internal/shared"
	"github.com/appboilerplate/taskmanager/internal/users"
)

func validSignup() users.SignupInput {
	return users.SignupInput{Name: " Ana ", Email: "A@X.com ", Password: "s3cret!!", Age: 30}
}

func TestSignupIssuesOneWorkingToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acct, token, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)

	assert.Equal(t, "Ana", acct.Name)
	assert.Equal(t, "a@x.com", acct.Email)
	assert.Len(t, acct.ID, 26)
	assert.Equal(t, []string{token}, acct.Tokens)
	assert.NotEqual(t, "s3cret!!", acct.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte("s3cret!!")))

	stored, err := f.repo.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{token}, stored.Tokens)

	authed, err := f.sessions.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, authed.ID)

	assert.Equal(t, []string{"a@x.com"}, f.mailer.sent)
}

func TestSignupThenLoginWithDifferentCasing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, signupToken, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)

	acct, loginToken, err := f.sessions.Login(ctx, "a@x.com", "s3cret!!")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", acct.Email)
	assert.NotEqual(t, signupToken, loginToken)
	assert.Equal(t, []string{signupToken, loginToken}, acct.Tokens)
}

func TestSignupValidation(t *testing.T) {
	cases := map[string]func(*users.SignupInput){
		"missing name":           func(in *users.SignupInput) { in.Name = "  " },
		"bad email":              func(in *users.SignupInput) { in.Email = "not-an-email" },
		"short password":         func(in *users.SignupInput) { in.Password = "abc12" },
		"password contains word": func(in *users.SignupInput) { in.Password = "MyPassWord1" },
		"negative age":           func(in *users.SignupInput) { in.Age = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			in := validSignup()
			mutate(&in)
			_, _, err := f.service.Signup(context.Background(), in)
			assert.ErrorIs(t, err, shared.ErrValidation)
			assert.Empty(t, f.repo.accounts)
			assert.Empty(t, f.mailer.sent)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	in := validSignup()
	in.Email = "a@X.COM"
	_, _, err = f.service.Signup(context.Background(), in)
	assert.ErrorIs(t, err, shared.ErrDuplicate)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSignupMailFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")

	acct, token, err := f.service.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, acct)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acct, _, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)

	patch, err := users.ParsePatch(rawPatch(t, `{"name":" Bea ","email":" BEA@x.com","age":41,"password":"n3w-secret"}`))
	require.NoError(t, err)

	updated, err := f.service.UpdateProfile(ctx, acct, patch)
	require.NoError(t, err)
	assert.Equal(t, "Bea", updated.Name)
	assert.Equal(t, "bea@x.com", updated.Email)
	assert.Equal(t, 41, updated.Age)

	_, _, err = f.sessions.Login(ctx, "bea@x.com", "n3w-secret")
	assert.NoError(t, err)
	_, _, err = f.sessions.Login(ctx, "bea@x.com", "s3cret!!")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestUpdateProfileRejectsInvalidValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acct, _, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)

	for _, body := range []string{`{"name":""}`, `{"email":"nope"}`, `{"age":-3}`, `{"password":"password123"}`} {
		patch, err := users.ParsePatch(rawPatch(t, body))
		require.NoError(t, err)
		_, err = f.service.UpdateProfile(ctx, acct, patch)
		assert.ErrorIs(t, err, shared.ErrValidation, body)
	}

	stored, err := f.repo.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Name)
	assert.Equal(t, "Ana", acct.Name)
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)
	other := validSignup()
	other.Email = "b@x.com"
	acct, _, err := f.service.Signup(ctx, other)
	require.NoError(t, err)

	patch, err := users.ParsePatch(rawPatch(t, `{"email":"a@x.com"}`))
	require.NoError(t, err)
	_, err = f.service.UpdateProfile(ctx, acct, patch)
	assert.ErrorIs(t, err, shared.ErrDuplicate)
	assert.Equal(t, "b@x.com", acct.Email)
}

func TestSetAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acct, _, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)

	require.NoError(t, f.service.SetAvatar(ctx, acct, "face.PNG", pngBytes(t, 600, 300)))
	assert.True(t, acct.HasAvatar())

	png, err := f.service.Avatar(ctx, acct.ID)
	require.NoError(t, err)
	format, w, h := decodeSize(t, png)
	assert.Equal(t, "png", format)
	assert.Equal(t, 250, w)
	assert.Equal(t, 250, h)
}

func TestSetAvatarRejectsGifBeforeDecoding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acct, _, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)

	err = f.service.SetAvatar(ctx, acct, "anim.gif", gifBytes(t, 10, 10))
	assert.ErrorIs(t, err, users.ErrAvatarFormat)

	// garbage content still fails on the name first
	err = f.service.SetAvatar(ctx, acct, "anim.gif", []byte("garbage"))
	assert.ErrorIs(t, err, users.ErrAvatarFormat)

	_, err = f.service.Avatar(ctx, acct.ID)
	assert.ErrorIs(t, err, shared.ErrNoAvatar)
}

func TestSetAvatarRejectsOversizedFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acct, _, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)

	err = f.service.SetAvatar(ctx, acct, "big.png", make([]byte, users.MaxAvatarBytes+1))
	assert.ErrorIs(t, err, users.ErrAvatarTooLarge)
}

func TestSetAvatarDecodeFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acct, _, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)

	err = f.service.SetAvatar(ctx, acct, "broken.png", []byte("not a png"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrValidation)
}

func TestClearAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acct, _, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)
	require.NoError(t, f.service.SetAvatar(ctx, acct, "a.jpg", jpegBytes(t, 64, 64)))

	require.NoError(t, f.service.ClearAvatar(ctx, acct))
	assert.False(t, acct.HasAvatar())
	_, err = f.service.Avatar(ctx, acct.ID)
	assert.ErrorIs(t, err, shared.ErrNoAvatar)
}

func TestAvatarAfterAccountDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acct, token, err := f.service.Signup(ctx, validSignup())
	require.NoError(t, err)
	require.NoError(t, f.service.SetAvatar(ctx, acct, "a.png", pngBytes(t, 32, 32)))

	require.NoError(t, f.sessions.DeleteAccount(ctx, acct))

	_, err = f.sessions.Authenticate(ctx, token)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	_, err = f.service.Avatar(ctx, acct.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
