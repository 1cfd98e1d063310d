package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
)

type E2ETestSuite struct {
	suite.Suite
	baseURL    string
	aliceToken string
	bobToken   string
	aliceID    int
	bobID      int
	noteID     int
	reportID   int
	campaignID int
}

func (s *E2ETestSuite) SetupSuite() {
	// Use test API container name when running in Docker, localhost otherwise
	if os.Getenv("CI") != "" || os.Getenv("DOCKER") != "" {
		s.baseURL = "http://test-api:8080"
	} else {
		s.baseURL = "http://localhost:8080"
	}
}

// do sends a JSON request with an optional bearer token.
func (s *E2ETestSuite) do(method, path, token, body string) *http.Response {
	req, err := http.NewRequest(method, s.baseURL+path, bytes.NewBufferString(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

// envelope decodes the standard response wrapper and returns the data field.
func (s *E2ETestSuite) envelope(resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	var out map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *E2ETestSuite) data(resp *http.Response) map[string]interface{} {
	out := s.envelope(resp)
	s.Require().Equal(true, out["success"])
	data, ok := out["data"].(map[string]interface{})
	s.Require().True(ok, "data is not an object")
	return data
}

func (s *E2ETestSuite) errorCode(resp *http.Response) string {
	out := s.envelope(resp)
	errObj, ok := out["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
