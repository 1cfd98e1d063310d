package handlers

import (
	"fmt"
	"net/http"
)

func (s *E2ETestSuite) Test28_SelfFollowRejected() {
	resp := s.do("POST", fmt.Sprintf("/users/%d/follow", s.bobID), s.bobToken, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("SELF_FOLLOW", s.errorCode(resp))
}

func (s *E2ETestSuite) Test29_BobFollowsAlice() {
	resp := s.do("POST", fmt.Sprintf("/users/%d/follow", s.aliceID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal(true, data["following"])

	resp = s.do("GET", fmt.Sprintf("/users/%d", s.aliceID), "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	profile := s.data(resp)
	s.Equal(float64(1), profile["followers"].(float64))
}

func (s *E2ETestSuite) Test30_FollowIsIdempotent() {
	resp := s.do("POST", fmt.Sprintf("/users/%d/follow", s.aliceID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)

	resp2 := s.do("GET", fmt.Sprintf("/users/%d", s.aliceID), "", "")
	profile := s.data(resp2)
	s.Equal(float64(1), profile["followers"].(float64))
	resp.Body.Close()
}

func (s *E2ETestSuite) Test30a_FollowerCounts() {
	resp := s.do("GET", fmt.Sprintf("/users/%d/followers/count", s.aliceID), "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(1), s.data(resp)["count"])

	resp = s.do("GET", fmt.Sprintf("/users/%d/following/count", s.bobID), "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(1), s.data(resp)["count"])
}

func (s *E2ETestSuite) Test31_FollowersListing() {
	resp := s.do("GET", fmt.Sprintf("/users/%d/followers", s.aliceID), "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	followers := data["data"].([]interface{})
	s.Len(followers, 1)
	first := followers[0].(map[string]interface{})
	s.Equal("bob", first["username"])
}

func (s *E2ETestSuite) Test32_FollowStatusAndUnfollow() {
	resp := s.do("GET", fmt.Sprintf("/users/%d/follow", s.aliceID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal(true, data["following"])

	resp = s.do("DELETE", fmt.Sprintf("/users/%d/follow", s.aliceID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.do("GET", fmt.Sprintf("/users/%d/follow", s.aliceID), s.bobToken, "")
	data = s.data(resp)
	s.Equal(false, data["following"])
}

func (s *E2ETestSuite) Test33_UnfollowNotFollowedIsNoop() {
	resp := s.do("DELETE", fmt.Sprintf("/users/%d/follow", s.aliceID), s.bobToken, "")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
