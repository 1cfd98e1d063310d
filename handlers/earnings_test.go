package handlers

import (
	"fmt"
	"net/http"
)

func (s *E2ETestSuite) Test34_SummaryStartsAtZero() {
	resp := s.do("GET", "/earnings", s.aliceToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	s.Equal(float64(0), data["total"].(float64))
	s.Equal(float64(0), data["withdrawable"].(float64))
}

func (s *E2ETestSuite) Test35_CannotTipOwnNote() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/tip", s.noteID), s.aliceToken, `{"amount":5}`)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test35a_TipAboveMaximumRejected() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/tip", s.noteID), s.bobToken, `{"amount":1000}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	out := s.envelope(resp)
	errObj := out["error"].(map[string]interface{})
	s.Equal("VALIDATION_ERROR", errObj["code"])
	details := errObj["details"].(map[string]interface{})
	s.Equal(float64(100), details["maximum"])
}

func (s *E2ETestSuite) Test36_BobTipsAliceNote() {
	resp := s.do("POST", fmt.Sprintf("/notes/%d/tip", s.noteID), s.bobToken, `{"amount":25}`)
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	s.Equal("support_tip", data["type"])
	s.Equal(float64(25), data["amount"].(float64))

	resp = s.do("GET", "/earnings", s.aliceToken, "")
	summary := s.data(resp)
	s.Equal(float64(25), summary["total"].(float64))
	s.Equal(float64(25), summary["withdrawable"].(float64))
}

func (s *E2ETestSuite) Test37_WithdrawBelowMinimum() {
	resp := s.do("POST", "/earnings/withdraw", s.aliceToken, `{"amount":1,"method":"upi"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test38_WithdrawMoreThanBalance() {
	resp := s.do("POST", "/earnings/withdraw", s.aliceToken, `{"amount":500,"method":"upi"}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("INSUFFICIENT_BALANCE", s.errorCode(resp))
}

func (s *E2ETestSuite) Test39_WithdrawalHoldsBalance() {
	resp := s.do("POST", "/earnings/withdraw", s.aliceToken, `{"amount":20,"method":"upi"}`)
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := s.data(resp)
	s.Equal("pending", data["status"])
	s.Equal(float64(-20), data["amount"].(float64))

	// The hold reduces withdrawable but not lifetime total.
	resp = s.do("GET", "/earnings", s.aliceToken, "")
	summary := s.data(resp)
	s.Equal(float64(25), summary["total"].(float64))
	s.Equal(float64(5), summary["withdrawable"].(float64))

	// A second withdrawal above the remaining balance must fail.
	resp = s.do("POST", "/earnings/withdraw", s.aliceToken, `{"amount":10,"method":"upi"}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("INSUFFICIENT_BALANCE", s.errorCode(resp))
}

func (s *E2ETestSuite) Test40_EarningsHistory() {
	resp := s.do("GET", "/earnings/history", s.aliceToken, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	data := s.data(resp)
	pagination := data["pagination"].(map[string]interface{})
	s.Equal(float64(2), pagination["total"].(float64))
}
