package utils

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

func Now() time.Time {
	return time.Now().UTC()
}

func NowPtr() *time.Time {
	now := Now()
	return &now
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func GenerateNanoIDWithPrefix(prefix string, length int) string {
	id, err := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", length)
	if err != nil {
		id = gonanoid.Must(length)
	}
	return prefix + "_" + id
}
