package handlers

import (
	"fmt"
	"net/http"
)

func (s *E2ETestSuite) Test11_CreateNoteRequiresAuth() {
	body := `{"title":"x","subject":"Physics","class":"10","fileType":"application/pdf","fileId":"f"}`
	resp := s.do("POST", "/notes", "", body)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test12_CreateNote() {
	body := `{
		"title": "Kinematics summary",
		"description": "One-page revision sheet",
		"subject": "Physics",
		"class": "10",
		"board": "CBSE",
		"topic": "Motion",
		"fileType": "application/pdf",
		"fileId": "11111111-2222-3333-4444-555555555555"
	}`
	resp := s.do("POST", "/notes", s.aliceToken, body)
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	s.noteID = int(data["id"].(float64))
	s.Equal("Kinematics summary", data["title"])
	s.Equal(float64(s.aliceID), data["uploaderId"].(float64))
}

func (s *E2ETestSuite) Test13_BrowseNotesAnonymously() {
	resp := s.do("GET", "/notes", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	pagination := data["pagination"].(map[string]interface{})
	s.GreaterOrEqual(pagination["total"].(float64), float64(1))
}

func (s *E2ETestSuite) Test14_GetNoteByID() {
	resp := s.do("GET", fmt.Sprintf("/notes/%d", s.noteID), "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal("Kinematics summary", data["title"])
	s.Equal("Alice", data["uploaderName"])
}

func (s *E2ETestSuite) Test15_FilterBySubjectMiss() {
	resp := s.do("GET", "/notes?subject=History", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	pagination := data["pagination"].(map[string]interface{})
	s.Equal(float64(0), pagination["total"].(float64))
}

func (s *E2ETestSuite) Test16_SearchByTitle() {
	resp := s.do("GET", "/notes?search=kinematics", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	pagination := data["pagination"].(map[string]interface{})
	s.GreaterOrEqual(pagination["total"].(float64), float64(1))
}

func (s *E2ETestSuite) Test17_Trending() {
	resp := s.do("GET", "/notes/trending", "", "")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) Test18_RecommendedUsesInterests() {
	// Bob declared Physics as an interest in Test10.
	resp := s.do("GET", "/me/recommended", s.bobToken, "")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) Test19_UserNotesListing() {
	resp := s.do("GET", fmt.Sprintf("/users/%d/notes", s.aliceID), "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	pagination := data["pagination"].(map[string]interface{})
	s.GreaterOrEqual(pagination["total"].(float64), float64(1))
}

func (s *E2ETestSuite) Test19a_DeleteByNonOwnerForbidden() {
	resp := s.do("DELETE", fmt.Sprintf("/notes/%d", s.noteID), s.bobToken, "")
	s.Equal(http.StatusForbidden, resp.StatusCode)
	s.Equal("FORBIDDEN", s.errorCode(resp))

	// The row is untouched.
	resp = s.do("GET", fmt.Sprintf("/notes/%d", s.noteID), "", "")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
