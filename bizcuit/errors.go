package bizcuit

import "errors"

var (
	RequestNotFoundErr    = errors.New("request not found")
	InvalidPincodeErr     = errors.New("invalid pincode")
	ExchangeFailedErr     = errors.New("failed to retrieve access token")
	RemoteAPIFailedErr    = errors.New("bizcuit api request failed")
	NotificationFailedErr = errors.New("failed to send pincode mail")
)
