package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type candidateCacheKeyInput struct {
	Mode       string    `json:"mode"`
	EmployerID uuid.UUID `json:"employer_id"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	SortBy     string    `json:"sort_by"`
	SortOrder  string    `json:"sort_order"`
	MinMatch   int       `json:"min_match"`
	MaxMatch   int       `json:"max_match"`
}

func candidateCachePrefix(employerID uuid.UUID) string {
	return "candidates:employer:" + employerID.String() + ":"
}

func candidateCacheKey(mode string, employerID uuid.UUID, p CandidateParams, minMatch, maxMatch int) string {
	in := candidateCacheKeyInput{
		Mode:       mode,
		EmployerID: employerID,
		Page:       p.Page,
		Limit:      p.Limit,
		SortBy:     normalizeCacheValue(p.SortBy),
		SortOrder:  normalizeCacheValue(p.SortOrder),
		MinMatch:   minMatch,
		MaxMatch:   maxMatch,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return candidateCachePrefix(employerID) + hex.EncodeToString(sum[:])
}

func jobsCachePrefix(employerID uuid.UUID) string {
	return "jobs:employer:" + employerID.String() + ":"
}

func notificationCountKey(userID uuid.UUID) string {
	return "notifcount:user:" + userID.String()
}

func notificationListPrefix(userID uuid.UUID) string {
	return "notifications:user:" + userID.String() + ":"
}

func notificationListKey(userID uuid.UUID, limit, offset int) string {
	return notificationListPrefix(userID) + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
}

func normalizeCacheValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
