package server

import "errors"

var (
	errNoAddressProvided = errors.New("no listen address provided")
	errNoRouterProvided  = errors.New("no router provided")
)
