package client

import (
	"net/http"

	"github.com/gophercloud/gophercloud/v2"
)

func okCodes(codes ...int) *gophercloud.RequestOpts {
	return &gophercloud.RequestOpts{OkCodes: codes}
}

// IsNotFound reports whether the error is a 404 from the remote API,
// possibly wrapped by one of the request helpers.
func IsNotFound(err error) bool {
	return gophercloud.ResponseCodeIs(err, http.StatusNotFound)
}
