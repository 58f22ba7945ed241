/* models.go
 * Contains the web server configuration and the JSON request bodies accepted by the HTTP handlers
 * Authors: Zachary Bower
 */

package web

import (
	"hackathon-engine/api/api"

	"go.uber.org/zap"
)

// Config holds the configuration for the web server
type Config struct {
	Addr        string
	API         *api.API
	CORSOrigins []string
	Logger      *zap.Logger
}

// Server holds the dependencies shared by the HTTP handlers
type Server struct {
	api    *api.API
	logger *zap.Logger
}

// NewServer creates a Server for the given API
func NewServer(apiPtr *api.API, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{api: apiPtr, logger: logger}
}

type registerRequest struct {
	Email string `json:"email"`
}

type createTeamRequest struct {
	Name string `json:"name"`
}

type inviteRequest struct {
	Email string `json:"email"`
}

type round1Request struct {
	Answers map[string]string `json:"answers"`
	Code    string            `json:"code"`
}

type round2Request struct {
	Link string `json:"link"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
