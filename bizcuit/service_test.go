package bizcuit_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-bizcuit-gateway/bizcuit"
	"github.com/jrsteele09/go-bizcuit-gateway/bizcuitapi"
	"github.com/jrsteele09/go-bizcuit-gateway/bizcuitapi/apifake"
	"github.com/jrsteele09/go-bizcuit-gateway/mailer/mailerfake"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	testUserEmail = "john.doe@example.com"
	testAuthCode  = "auth-code-1"
)

var pincodePattern = regexp.MustCompile(`\d{6}`)

// testFixture holds all test dependencies
type testFixture struct {
	api      *apifake.FakeClient
	notifier *mailerfake.FakeNotifier
	service  *bizcuit.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	registry := bizcuit.NewRegistry()
	t.Cleanup(registry.Close)

	api := apifake.NewFakeClient()
	api.Token = &bizcuitapi.Token{
		AccessToken:   "access-token-1",
		IdentityToken: identityToken(t, testUserEmail),
	}

	notifier := mailerfake.NewFakeNotifier()

	service, err := bizcuit.NewService(registry, api, notifier)
	require.NoError(t, err)

	return &testFixture{api: api, notifier: notifier, service: service}
}

// identityToken builds an unsigned JWT carrying the email claim, the way the
// fake token endpoint hands identity over.
func identityToken(t *testing.T, email string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": email})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return signed
}

// mailedPincode pulls the pincode out of the last delivered message.
func (f *testFixture) mailedPincode(t *testing.T) string {
	t.Helper()

	sent := f.notifier.Sent()
	require.NotEmpty(t, sent)
	pincode := pincodePattern.FindString(sent[len(sent)-1].HTML)
	require.NotEmpty(t, pincode)
	return pincode
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	registry := bizcuit.NewRegistry()
	defer registry.Close()

	_, err := bizcuit.NewService(nil, apifake.NewFakeClient(), mailerfake.NewFakeNotifier())
	require.Error(t, err)

	_, err = bizcuit.NewService(registry, nil, mailerfake.NewFakeNotifier())
	require.Error(t, err)

	_, err = bizcuit.NewService(registry, apifake.NewFakeClient(), nil)
	require.Error(t, err)
}

func TestStartRequestReturnsStateInAuthorizeURL(t *testing.T) {
	f := setupTestFixture(t)

	started, err := f.service.StartRequest()
	require.NoError(t, err)
	require.NotEmpty(t, started.RequestID)
	require.Contains(t, started.AuthorizeURL, "state="+started.RequestID)
}

func TestReceiveCodeUnknownRequestHasNoSideEffects(t *testing.T) {
	f := setupTestFixture(t)

	err := f.service.ReceiveCode(context.Background(), "unknown-request", "abc")
	require.ErrorIs(t, err, bizcuit.RequestNotFoundErr)
	require.Empty(t, f.notifier.Sent())
	require.Zero(t, f.api.ExchangeCalls)
}

func TestReceiveCodeExchangesAndMailsPincode(t *testing.T) {
	f := setupTestFixture(t)

	started, err := f.service.StartRequest()
	require.NoError(t, err)

	err = f.service.ReceiveCode(context.Background(), started.RequestID, testAuthCode)
	require.NoError(t, err)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, testUserEmail, sent[0].To)
	require.Contains(t, sent[0].HTML, f.mailedPincode(t))
	require.Equal(t, 1, f.api.ExchangeCalls)
}

func TestConsumeRequestIsOneTryOnly(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.StartRequest()
	require.NoError(t, err)
	require.NoError(t, f.service.ReceiveCode(ctx, started.RequestID, testAuthCode))

	pincode := f.mailedPincode(t)
	paginator, err := f.service.ConsumeRequest(ctx, started.RequestID, pincode, nil)
	require.NoError(t, err)
	require.NotNil(t, paginator)

	// The request was deleted on the first attempt
	_, err = f.service.ConsumeRequest(ctx, started.RequestID, pincode, nil)
	require.ErrorIs(t, err, bizcuit.RequestNotFoundErr)
}

func TestConsumeRequestDeletesOnWrongPincode(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.StartRequest()
	require.NoError(t, err)
	require.NoError(t, f.service.ReceiveCode(ctx, started.RequestID, testAuthCode))

	// "000000" can never match: generated pincodes start at 100000
	_, err = f.service.ConsumeRequest(ctx, started.RequestID, "000000", nil)
	require.ErrorIs(t, err, bizcuit.InvalidPincodeErr)

	// Even the correct pincode cannot revive the request
	_, err = f.service.ConsumeRequest(ctx, started.RequestID, f.mailedPincode(t), nil)
	require.ErrorIs(t, err, bizcuit.RequestNotFoundErr)
}

func TestExchangeHappensOncePerRequest(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.StartRequest()
	require.NoError(t, err)
	require.NoError(t, f.service.ReceiveCode(ctx, started.RequestID, testAuthCode))

	_, err = f.service.ConsumeRequest(ctx, started.RequestID, f.mailedPincode(t), nil)
	require.NoError(t, err)

	// ReceiveCode already exchanged; consumption reused the cached token
	require.Equal(t, 1, f.api.ExchangeCalls)
}

func TestFailedExchangeLeavesRequestRetryable(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.StartRequest()
	require.NoError(t, err)

	f.api.ExchangeErr = errors.New("token endpoint unreachable")
	err = f.service.ReceiveCode(ctx, started.RequestID, testAuthCode)
	require.Error(t, err)
	require.Contains(t, err.Error(), bizcuit.ExchangeFailedErr.Error())
	require.Empty(t, f.notifier.Sent())

	f.api.ExchangeErr = nil
	require.NoError(t, f.service.ReceiveCode(ctx, started.RequestID, testAuthCode))
	require.Len(t, f.notifier.Sent(), 1)
}

func TestNotificationFailureSurfaces(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started, err := f.service.StartRequest()
	require.NoError(t, err)

	f.notifier.SendErr = errors.New("smtp rejected")
	err = f.service.ReceiveCode(ctx, started.RequestID, testAuthCode)
	require.Error(t, err)
	require.Contains(t, err.Error(), bizcuit.NotificationFailedErr.Error())
}

func TestConsumedPaginatorStreamsTransactions(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.api.Accounts = []bizcuitapi.BankAccount{
		{ID: "account-1", IBAN: "NL91ABNA0417164300", Active: true},
	}
	f.api.SetPage("account-1", "", "<Ntry><NtryRef>a1</NtryRef></Ntry>")

	started, err := f.service.StartRequest()
	require.NoError(t, err)
	require.NoError(t, f.service.ReceiveCode(ctx, started.RequestID, testAuthCode))

	paginator, err := f.service.ConsumeRequest(ctx, started.RequestID, f.mailedPincode(t), nil)
	require.NoError(t, err)

	var batches []bizcuit.TransactionBatch
	err = paginator.Each(ctx, func(batch bizcuit.TransactionBatch) error {
		batches = append(batches, batch)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Equal(t, "NL91ABNA0417164300", batches[0].IBAN)
	require.Contains(t, batches[0].CAMT, "a1")
}
