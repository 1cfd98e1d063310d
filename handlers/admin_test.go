package handlers

import (
	"fmt"
	"net/http"
)

func (s *E2ETestSuite) Test41_AdminRoutesNeedARole() {
	resp := s.do("GET", "/admin/reports", s.bobToken, "")
	defer resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *E2ETestSuite) Test42_BobFilesReport() {
	body := fmt.Sprintf(`{"subjectType":"note","subjectId":%d,"reason":"Copied from a textbook"}`, s.noteID)
	resp := s.do("POST", "/reports", s.bobToken, body)
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	s.reportID = int(data["id"].(float64))
	s.Equal("open", data["status"])
}

func (s *E2ETestSuite) Test43_AdminSetupBootstrapsOnce() {
	resp := s.do("POST", "/admin/setup", s.aliceToken, "")
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	s.Equal("super_admin", data["role"])

	// Second bootstrap attempt is rejected, even by another user.
	resp = s.do("POST", "/admin/setup", s.bobToken, "")
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *E2ETestSuite) Test44_SuperAdminListsReports() {
	resp := s.do("GET", "/admin/reports?status=open", s.aliceToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	pagination := data["pagination"].(map[string]interface{})
	s.GreaterOrEqual(pagination["total"].(float64), float64(1))
}

func (s *E2ETestSuite) Test45_ResolveReport() {
	body := `{"status":"dismissed","note":"Original work, reporter mistaken"}`
	resp := s.do("POST", fmt.Sprintf("/admin/reports/%d/resolve", s.reportID), s.aliceToken, body)
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal("dismissed", data["status"])

	// Resolving again conflicts: the report is no longer open.
	resp = s.do("POST", fmt.Sprintf("/admin/reports/%d/resolve", s.reportID), s.aliceToken, body)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *E2ETestSuite) Test46_TelegramGroupLifecycle() {
	body := `{"name":"Class 10 Physics","link":"https://t.me/class10physics","memberCount":1200}`
	resp := s.do("POST", "/admin/telegram-groups", s.aliceToken, body)
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	groupID := int(data["id"].(float64))

	resp = s.do("GET", "/telegram-groups", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	out := s.envelope(resp)
	groups := out["data"].([]interface{})
	s.GreaterOrEqual(len(groups), 1)

	resp = s.do("DELETE", fmt.Sprintf("/admin/telegram-groups/%d", groupID), s.aliceToken, "")
	defer resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *E2ETestSuite) Test47_EnableAdsAndClick() {
	body := `{"adsEnabled":true,"revenuePerClick":0.5,"rewardPerView":0.01,"targetUrl":"https://ads.example.com"}`
	resp := s.do("PUT", "/admin/ad-settings", s.aliceToken, body)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do("POST", fmt.Sprintf("/notes/%d/ad-click", s.noteID), s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal(float64(0.5), data["amount"].(float64))
	s.Equal(float64(1), data["adClicks"].(float64))

	// The click revenue lands in the uploader's earnings.
	resp = s.do("GET", "/earnings", s.aliceToken, "")
	summary := s.data(resp)
	s.Equal(float64(25.5), summary["total"].(float64))
}

func (s *E2ETestSuite) Test47a_ViewRewardCreditsUploader() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/view", s.noteID), "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// With ads on, each view pays the configured reward.
	resp = s.do("GET", "/earnings", s.aliceToken, "")
	summary := s.data(resp)
	s.Equal(float64(25.51), summary["total"].(float64))
}

func (s *E2ETestSuite) Test48_AnalyticsOverview() {
	resp := s.do("GET", "/admin/analytics", s.aliceToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal(float64(2), data["users"].(float64))
	s.GreaterOrEqual(data["notes"].(float64), float64(1))
}

func (s *E2ETestSuite) Test49_CampaignSendReachesAudience() {
	body := `{"title":"Exam week","message":"New revision notes are live","audience":"all"}`
	resp := s.do("POST", "/admin/campaigns", s.aliceToken, body)
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	s.campaignID = int(data["id"].(float64))

	resp = s.do("POST", fmt.Sprintf("/admin/campaigns/%d/send", s.campaignID), s.aliceToken, "")
	s.True(resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted)
	resp.Body.Close()
}

func (s *E2ETestSuite) Test49a_UnreadNotificationsArePaginated() {
	resp := s.do("GET", "/notifications/unread", s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Contains(data, "data")
	s.Contains(data, "pagination")
}

func (s *E2ETestSuite) Test50_CustomRoleGrantsOnlyItsPermissions() {
	body := `{"name":"moderator","description":"report triage","permissions":["manage_reports"]}`
	resp := s.do("POST", "/admin/roles", s.aliceToken, body)
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	roleID := int(data["id"].(float64))

	assign := fmt.Sprintf(`{"roleId":%d}`, roleID)
	resp = s.do("PUT", fmt.Sprintf("/admin/users/%d/role", s.bobID), s.aliceToken, assign)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Bob can now read reports but still cannot touch settings.
	resp = s.do("GET", "/admin/reports", s.bobToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do("GET", "/admin/settings", s.bobToken, "")
	defer resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *E2ETestSuite) Test51_VerifyUploader() {
	body := `{"verified":true,"reason":"Identity confirmed"}`
	resp := s.do("PUT", fmt.Sprintf("/admin/users/%d/verified", s.aliceID), s.aliceToken, body)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do("GET", fmt.Sprintf("/users/%d", s.aliceID), "", "")
	profile := s.data(resp)
	s.Equal(true, profile["isVerified"])
}

func (s *E2ETestSuite) Test52_DeleteNoteCascades() {
	resp := s.do("DELETE", fmt.Sprintf("/notes/%d", s.noteID), s.aliceToken, "")
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do("GET", fmt.Sprintf("/notes/%d", s.noteID), "", "")
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)

	// Bob's bookmark edge went with it.
	resp2 := s.do("GET", "/me/bookmarks", s.bobToken, "")
	data := s.data(resp2)
	pagination := data["pagination"].(map[string]interface{})
	s.Equal(float64(0), pagination["total"].(float64))
}

func (s *E2ETestSuite) Test53_Logout() {
	resp := s.do("POST", "/logout", s.bobToken, "")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
