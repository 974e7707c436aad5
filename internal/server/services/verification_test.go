package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Success(t *testing.T) {
	f := newFixture(t)
	acc, code := f.register(t)

	f.expectCommit()
	v, err := f.verification.Verify(context.Background(), "ALICE@example.com", code)
	require.NoError(t, err)
	assert.True(t, v.Verified)
	assert.True(t, f.store.verifications[acc.ID].Verified)
}

func TestVerify_TwiceWithValidCode(t *testing.T) {
	f := newFixture(t)
	acc, code := f.register(t)

	f.expectCommit()
	_, err := f.verification.Verify(context.Background(), acc.Email, code)
	require.NoError(t, err)

	f.expectCommit()
	v, err := f.verification.Verify(context.Background(), acc.Email, code)
	require.NoError(t, err)
	assert.True(t, v.Verified)
}

func TestVerify_WrongCode(t *testing.T) {
	f := newFixture(t)
	acc, code := f.register(t)

	wrong := "0000"
	if code == wrong {
		wrong = "1111"
	}

	f.expectRollback()
	_, err := f.verification.Verify(context.Background(), acc.Email, wrong)
	assert.ErrorIs(t, err, common.ErrorInvalidCode)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.False(t, f.store.verifications[acc.ID].Verified)
}

func TestVerify_ExpiryIsStrict(t *testing.T) {
	f := newFixture(t)
	acc, code := f.register(t)
	issued := f.clock

	f.clock = issued.Add(5 * time.Minute)
	f.expectRollback()
	_, err := f.verification.Verify(context.Background(), acc.Email, code)
	assert.ErrorIs(t, err, common.ErrorInvalidCode, "rejected at exactly expires_at")

	f.clock = issued.Add(5*time.Minute - time.Nanosecond)
	f.expectCommit()
	_, err = f.verification.Verify(context.Background(), acc.Email, code)
	assert.NoError(t, err)
}

func TestVerify_ExpiredAndWrongLookTheSame(t *testing.T) {
	f := newFixture(t)
	acc, code := f.register(t)

	f.expectRollback()
	_, wrongErr := f.verification.Verify(context.Background(), acc.Email, code+"9")

	f.clock = f.clock.Add(time.Hour)
	f.expectRollback()
	_, expiredErr := f.verification.Verify(context.Background(), acc.Email, code)

	assert.Equal(t, wrongErr.Error(), expiredErr.Error())
}

func TestVerify_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.verification.Verify(context.Background(), "ghost@example.com", "1234")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestVerify_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.verification.Verify(context.Background(), " ", "")
	require.ErrorIs(t, err, common.ErrorValidation)

	var ve common.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve, "email")
	assert.Contains(t, ve, "verificationCode")
}

func TestVerify_StoreErrors(t *testing.T) {
	f := newFixture(t)
	acc, code := f.register(t)

	f.store.markErr = errBoom{}
	f.expectRollback()
	_, err := f.verification.Verify(context.Background(), acc.Email, code)
	assert.ErrorContains(t, err, "boom")
	assert.NotErrorIs(t, err, common.ErrorInvalidCode)

	f.store.markErr = nil
	f.store.verGetErr = errBoom{}
	f.expectRollback()
	_, err = f.verification.Verify(context.Background(), acc.Email, code)
	assert.ErrorContains(t, err, "boom")

	f.store.getErr = errBoom{}
	_, err = f.verification.Verify(context.Background(), acc.Email, code)
	assert.ErrorContains(t, err, "boom")
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestResend_ReplacesCode(t *testing.T) {
	f := newFixture(t)
	acc, oldCode := f.register(t)
	oldExpiry := f.store.verifications[acc.ID].ExpiresAt

	f.clock = f.clock.Add(4 * time.Minute)
	f.expectCommit()
	require.NoError(t, f.verification.Resend(context.Background(), acc.Email))

	v := f.store.verifications[acc.ID]
	assert.Equal(t, f.clock.Add(5*time.Minute), v.ExpiresAt)
	assert.True(t, v.ExpiresAt.After(oldExpiry))
	require.Len(t, f.sender.sent, 2)
	assert.Contains(t, f.sender.sent[1].body, v.Code)

	if v.Code != oldCode {
		f.expectRollback()
		_, err := f.verification.Verify(context.Background(), acc.Email, oldCode)
		assert.ErrorIs(t, err, common.ErrorInvalidCode, "superseded code is dead")
	}

	f.expectCommit()
	_, err := f.verification.Verify(context.Background(), acc.Email, v.Code)
	assert.NoError(t, err)
}

func TestResend_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.verification.Resend(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, f.sender.sent)
}

func TestResend_EmptyEmail(t *testing.T) {
	f := newFixture(t)

	err := f.verification.Resend(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestResend_AlreadyVerified(t *testing.T) {
	f := newFixture(t)
	acc := f.registerVerified(t)
	sent := len(f.sender.sent)
	upserts := f.store.upserts

	f.expectRollback()
	err := f.verification.Resend(context.Background(), acc.Email)
	assert.ErrorIs(t, err, common.ErrorAlreadyVerified)
	assert.Len(t, f.sender.sent, sent)
	assert.Equal(t, upserts, f.store.upserts)
	assert.True(t, f.store.verifications[acc.ID].Verified)
}

func TestResend_DeliveryFailure(t *testing.T) {
	f := newFixture(t)
	acc, _ := f.register(t)

	f.sender.err = errors.New("smtp unavailable")
	f.expectCommit()
	err := f.verification.Resend(context.Background(), acc.Email)
	assert.ErrorIs(t, err, common.ErrorDelivery)
	assert.ErrorContains(t, err, "smtp unavailable")
}

func TestResend_StoreFailure(t *testing.T) {
	f := newFixture(t)
	acc, _ := f.register(t)

	f.store.upsertErr = errBoom{}
	f.expectRollback()
	err := f.verification.Resend(context.Background(), acc.Email)
	assert.ErrorContains(t, err, "boom")
}
