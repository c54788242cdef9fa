package bizcuit

import (
	"context"

	"github.com/jrsteele09/go-bizcuit-gateway/bizcuitapi"
	"github.com/jrsteele09/go-bizcuit-gateway/mailer"
	"github.com/pkg/errors"
)

// Service implements the Bizcuit download flow: issue a consent redirect,
// take the authorization code callback, mail a pincode to the account holder
// and hand out the bank transactions exactly once.
type Service struct {
	registry *Registry
	api      bizcuitapi.Client
	notifier mailer.Notifier
}

// NewService initializes a new Service with required dependencies.
func NewService(registry *Registry, api bizcuitapi.Client, notifier mailer.Notifier) (*Service, error) {
	if registry == nil {
		return nil, errors.New("[NewService] registry is required")
	}
	if api == nil {
		return nil, errors.New("[NewService] api client is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewService] notifier is required")
	}

	return &Service{
		registry: registry,
		api:      api,
		notifier: notifier,
	}, nil
}

// StartedRequest is returned to the caller so it can redirect the user to the
// Bizcuit consent page and correlate the flow afterwards.
type StartedRequest struct {
	AuthorizeURL string `json:"url"`
	RequestID    string `json:"requestId"`
}

// StartRequest registers a new download request and builds the consent URL.
// The request ID travels as the OAuth2 state parameter and is the only thing
// tying the eventual callback to this request.
func (s *Service) StartRequest() (StartedRequest, error) {
	request, err := s.registry.New()
	if err != nil {
		return StartedRequest{}, errors.Wrap(err, "[StartRequest] registry.New")
	}

	return StartedRequest{
		AuthorizeURL: s.api.AuthCodeURL(request.ID),
		RequestID:    request.ID,
	}, nil
}

// ReceiveCode handles the consent redirect: it records the authorization
// code, exchanges it and mails the pincode to the email address carried in
// the identity token. An unknown request ID has no side effects.
func (s *Service) ReceiveCode(ctx context.Context, requestID, code string) error {
	request, ok := s.registry.Get(requestID)
	if !ok {
		return RequestNotFoundErr
	}

	request.SetCode(code)

	if err := s.ensureAccessToken(ctx, request); err != nil {
		return errors.Wrap(err, "[ReceiveCode] ensureAccessToken")
	}

	if err := s.notifier.Send(ctx, mailer.PincodeMessage(request.email(), request.pincode)); err != nil {
		return errors.Wrap(err, NotificationFailedErr.Error())
	}

	return nil
}

// ConsumeRequest verifies the pincode and returns the transaction paginator.
// The request is deleted before the pincode is checked: whatever the outcome,
// a request is answerable at most once. resumeCursors continues pagination
// per IBAN after a previously seen entry reference.
func (s *Service) ConsumeRequest(ctx context.Context, requestID, pincode string, resumeCursors map[string]string) (*Paginator, error) {
	request, ok := s.registry.Get(requestID)
	s.registry.Delete(requestID)

	if !ok {
		return nil, RequestNotFoundErr
	}
	if !request.VerifyPincode(pincode) {
		return nil, InvalidPincodeErr
	}

	if err := s.ensureAccessToken(ctx, request); err != nil {
		return nil, errors.Wrap(err, "[ConsumeRequest] ensureAccessToken")
	}

	return &Paginator{
		api:         s.api,
		accessToken: request.accessToken,
		resume:      resumeCursors,
	}, nil
}

// Close stops the registry's background sweeper.
func (s *Service) Close() {
	s.registry.Close()
}

// ensureAccessToken exchanges the authorization code on first use. The token
// is cached on the request and the code cleared, so a second call performs no
// remote work and the code can never be exchanged twice. A failed exchange
// leaves the request untouched and retryable until it is evicted.
func (s *Service) ensureAccessToken(ctx context.Context, request *Request) error {
	if request.Authorized() {
		return nil
	}

	token, err := s.api.ExchangeCode(ctx, request.code)
	if err != nil {
		return errors.Wrap(err, ExchangeFailedErr.Error())
	}

	identity, err := bizcuitapi.DecodeIdentity(token.IdentityToken)
	if err != nil {
		return errors.Wrap(err, ExchangeFailedErr.Error())
	}

	request.setToken(token.AccessToken, identity)
	return nil
}
