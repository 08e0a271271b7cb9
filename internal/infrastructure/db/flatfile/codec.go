// Package flatfile persists users and sessions as line-oriented UTF-8 text
// files: one "Key: Value" detail file per user, one ':'-delimited aggregate
// index file, and one append-only session log. The formats do not escape
// the ':' delimiter; free-text values are sanitized instead.
package flatfile

import (
	"strconv"
	"strings"
	"time"

	"github.com/lessonworks/learning-auth/internal/core/domain"
)

// Per-user detail file keys, in write order.
const (
	keyUsername         = "Username"
	keyEmail            = "Email"
	keyFullName         = "Full Name"
	keyJoinDate         = "Join Date"
	keyLastLogin        = "Last Login"
	keyProgress         = "Progress"
	keyCompletedLessons = "Completed Lessons"
	keyPasswordHash     = "Password Hash"
)

// indexFieldCount is the number of positional fields in one index line:
// username:passwordHash:email:fullName:joinDate:lastLogin:progress:lessons
const indexFieldCount = 8

// EncodeUserFile renders a user record as "Key: Value" lines. Free-text
// fields are sanitized at the boundary so a stray ':' can never corrupt the
// framing.
func EncodeUserFile(u *domain.UserRecord) []byte {
	var b strings.Builder
	writeField := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}

	writeField(keyUsername, domain.Sanitize(u.Username))
	writeField(keyEmail, domain.Sanitize(u.Email))
	writeField(keyFullName, domain.Sanitize(u.FullName))
	writeField(keyJoinDate, u.JoinDate)
	writeField(keyLastLogin, u.LastLogin)
	writeField(keyProgress, strconv.Itoa(u.Progress))
	writeField(keyCompletedLessons, encodeLessonSet(u.CompletedLessons))
	writeField(keyPasswordHash, u.PasswordHash)
	return []byte(b.String())
}

// DecodeUserFile parses a per-user detail file. Parsing is tolerant: unknown
// keys are ignored and missing keys leave the corresponding field at its
// zero value.
func DecodeUserFile(data []byte) *domain.UserRecord {
	u := &domain.UserRecord{}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case keyUsername:
			u.Username = value
		case keyEmail:
			u.Email = value
		case keyFullName:
			u.FullName = value
		case keyJoinDate:
			u.JoinDate = value
		case keyLastLogin:
			u.LastLogin = value
		case keyProgress:
			u.Progress, _ = strconv.Atoi(value)
		case keyCompletedLessons:
			u.CompletedLessons = decodeLessonSet(value)
		case keyPasswordHash:
			u.PasswordHash = value
		}
	}
	return u
}

// EncodeIndexLine renders the positional index entry for a user (no trailing
// newline).
func EncodeIndexLine(u *domain.UserRecord) string {
	fields := [indexFieldCount]string{
		domain.Sanitize(u.Username),
		u.PasswordHash,
		domain.Sanitize(u.Email),
		domain.Sanitize(u.FullName),
		u.JoinDate,
		u.LastLogin,
		strconv.Itoa(u.Progress),
		encodeLessonSet(u.CompletedLessons),
	}
	return strings.Join(fields[:], ":")
}

// DecodeIndexLine parses one index line. Lines with fewer than eight fields
// decode tolerantly: the missing trailing fields keep their zero values.
// Fields beyond the eighth are ignored.
func DecodeIndexLine(line string) *domain.UserRecord {
	parts := strings.Split(line, ":")
	u := &domain.UserRecord{}
	for i, part := range parts {
		switch i {
		case 0:
			u.Username = part
		case 1:
			u.PasswordHash = part
		case 2:
			u.Email = part
		case 3:
			u.FullName = part
		case 4:
			u.JoinDate = part
		case 5:
			u.LastLogin = part
		case 6:
			u.Progress, _ = strconv.Atoi(part)
		case 7:
			u.CompletedLessons = decodeLessonSet(part)
		}
	}
	return u
}

// EncodeSessionLine renders one session log entry (no trailing newline).
// Expiry is a unix-millisecond timestamp.
func EncodeSessionLine(s domain.Session) string {
	return s.Token + ":" + s.Username + ":" + strconv.FormatInt(s.ExpiresAt.UnixMilli(), 10)
}

// DecodeSessionLine parses one session log entry. Malformed lines report
// ok=false and are skipped by callers.
func DecodeSessionLine(line string) (domain.Session, bool) {
	parts := strings.Split(line, ":")
	if len(parts) < 3 {
		return domain.Session{}, false
	}
	millis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return domain.Session{}, false
	}
	return domain.Session{
		Token:     parts[0],
		Username:  parts[1],
		ExpiresAt: time.UnixMilli(millis),
	}, true
}

// encodeLessonSet renders a lesson id set as "[id1,id2]".
func encodeLessonSet(lessons []string) string {
	sanitized := make([]string, 0, len(lessons))
	for _, l := range lessons {
		sanitized = append(sanitized, domain.Sanitize(l))
	}
	return "[" + strings.Join(sanitized, ",") + "]"
}

// decodeLessonSet parses "[id1,id2]" into a slice; "[]" and bare empty
// values decode to an empty set.
func decodeLessonSet(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if s == "" {
		return nil
	}
	var lessons []string
	for _, l := range strings.Split(s, ",") {
		if l != "" {
			lessons = append(lessons, l)
		}
	}
	return lessons
}
