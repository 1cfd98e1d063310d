package handlers

import "net/http"

func (s *E2ETestSuite) Test01_RegisterAlice() {
	body := `{"email":"alice@example.com","password":"alicepass1","username":"alice","name":"Alice"}`
	resp := s.do("POST", "/register", "", body)
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	s.aliceToken = data["token"].(string)
	user := data["user"].(map[string]interface{})
	s.aliceID = int(user["id"].(float64))
	s.NotEmpty(s.aliceToken)
}

func (s *E2ETestSuite) Test02_RegisterAliceConflict() {
	body := `{"email":"alice@example.com","password":"alicepass1","username":"alice","name":"Alice"}`
	resp := s.do("POST", "/register", "", body)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *E2ETestSuite) Test03_LoginInvalidPassword() {
	body := `{"email":"alice@example.com","password":"wrongpass"}`
	resp := s.do("POST", "/login", "", body)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test04_LoginAlice() {
	body := `{"email":"alice@example.com","password":"alicepass1"}`
	resp := s.do("POST", "/login", "", body)
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.aliceToken = data["token"].(string)
	s.NotEmpty(s.aliceToken)
}

func (s *E2ETestSuite) Test05_RegisterBob() {
	body := `{"email":"bob@example.com","password":"bobpass12","username":"bob","name":"Bob"}`
	resp := s.do("POST", "/register", "", body)
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	s.bobToken = data["token"].(string)
	user := data["user"].(map[string]interface{})
	s.bobID = int(user["id"].(float64))
}

func (s *E2ETestSuite) Test06_MeRequiresAuth() {
	resp := s.do("GET", "/me", "", "")
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test07_Me() {
	resp := s.do("GET", "/me", s.aliceToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal("alice", data["username"])
}

func (s *E2ETestSuite) Test08_UpdateProfile() {
	body := `{"bio":"Physics teacher","website":"https://alice.example.com"}`
	resp := s.do("PATCH", "/me", s.aliceToken, body)
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal("Physics teacher", data["bio"])
}

func (s *E2ETestSuite) Test09_UsernameConflictOnUpdate() {
	body := `{"username":"alice"}`
	resp := s.do("PATCH", "/me", s.bobToken, body)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *E2ETestSuite) Test10_SetInterests() {
	body := `{"values":["Physics","Maths"]}`
	resp := s.do("PUT", "/me/interests", s.bobToken, body)
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Len(data["interests"], 2)
}
