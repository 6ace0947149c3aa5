// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

type echoService struct{}

type EchoArgs struct {
	Message string `json:"message"`
}

type EchoReply struct {
	Message string `json:"message"`
}

func (*echoService) Echo(_ *http.Request, args *EchoArgs, reply *EchoReply) error {
	reply.Message = args.Message
	return nil
}

func TestAddService(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, nil, HTTPConfig{}, []string{"*"}, time.Second)
	require.NoError(s.AddService(&echoService{}, "echo", "echo"))
	require.ErrorIs(s.AddService(&echoService{}, "echo", "echo"), ErrDuplicateRoute)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"echo.echo","params":{"message":"hi"}}`
	resp, err := http.Post(srv.URL+BaseURL+"/echo", "application/json", strings.NewReader(body))
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusOK, resp.StatusCode)

	resp404, err := http.Get(srv.URL + BaseURL + "/missing")
	require.NoError(err)
	defer resp404.Body.Close()
	require.Equal(http.StatusNotFound, resp404.StatusCode)
}
