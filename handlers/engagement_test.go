package handlers

import (
	"fmt"
	"net/http"
)

func (s *E2ETestSuite) Test20_BobLikesNote() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/like", s.noteID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal(true, data["isLiked"])
	s.Equal(float64(1), data["likes"].(float64))
}

func (s *E2ETestSuite) Test21_DislikeReplacesLike() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/dislike", s.noteID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal(false, data["isLiked"])
	s.Equal(true, data["isDisliked"])
	s.Equal(float64(0), data["likes"].(float64))
	s.Equal(float64(1), data["dislikes"].(float64))
}

func (s *E2ETestSuite) Test22_DislikeTogglesOff() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/dislike", s.noteID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal(false, data["isDisliked"])
	s.Equal(float64(0), data["dislikes"].(float64))
}

func (s *E2ETestSuite) Test23_ReactMissingNote() {
	resp := s.do("POST", "/notes/999999/like", s.bobToken, "")
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *E2ETestSuite) Test24_BookmarkAndList() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/bookmark", s.noteID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal(true, data["isBookmarked"])

	resp = s.do("GET", "/me/bookmarks", s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	listData := s.data(resp)
	pagination := listData["pagination"].(map[string]interface{})
	s.Equal(float64(1), pagination["total"].(float64))
}

func (s *E2ETestSuite) Test24a_BookmarkToggleRestoresState() {
	// Toggle off.
	resp := s.do("POST", fmt.Sprintf("/notes/%d/bookmark", s.noteID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(false, s.data(resp)["isBookmarked"])

	resp = s.do("GET", "/me/bookmarks", s.bobToken, "")
	pagination := s.data(resp)["pagination"].(map[string]interface{})
	s.Equal(float64(0), pagination["total"].(float64))

	// Toggle back on: the bookmarked set is exactly as before.
	resp = s.do("POST", fmt.Sprintf("/notes/%d/bookmark", s.noteID), s.bobToken, "")
	s.Equal(true, s.data(resp)["isBookmarked"])

	resp = s.do("GET", "/me/bookmarks", s.bobToken, "")
	pagination = s.data(resp)["pagination"].(map[string]interface{})
	s.Equal(float64(1), pagination["total"].(float64))
}

func (s *E2ETestSuite) Test25_DownloadIsIdempotentPerUser() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/download", s.noteID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.NotEmpty(data["url"])
	state := data["state"].(map[string]interface{})
	s.Equal(float64(1), state["downloads"].(float64))

	// Second download by the same user must not bump the counter.
	resp = s.do("POST", fmt.Sprintf("/notes/%d/download", s.noteID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data = s.data(resp)
	state = data["state"].(map[string]interface{})
	s.Equal(float64(1), state["downloads"].(float64))
}

func (s *E2ETestSuite) Test26_RecordView() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/view", s.noteID), "", "")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) Test27_AdClickWhileDisabled() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/ad-click", s.noteID), s.bobToken, "")
	s.Equal(http.StatusForbidden, resp.StatusCode)
	s.Equal("ADS_DISABLED", s.errorCode(resp))
}
