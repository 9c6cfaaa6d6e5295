package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ID prefixes per resource.
const (
	PrefixUser        = "usr"
	PrefixAccount     = "acc"
	PrefixTransaction = "tan"
	PrefixCategory    = "cat"
	PrefixGoal        = "gol"
	PrefixOpinion     = "opn"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateID generates a unique ID with the given prefix, e.g. "acc-Xy3k9PqL0a".
func GenerateID(prefix string) string {
	const length = 10

	result := make([]byte, length)
	for i := range result {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(idCharset))))
		if err != nil {
			panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
		}
		result[i] = idCharset[num.Int64()]
	}

	return fmt.Sprintf("%s-%s", prefix, string(result))
}

// HasPrefix reports whether id was generated for the given prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"-") && len(id) > len(prefix)+1
}

// HashPassword hashes a password using bcrypt at the given cost.
// A cost of 0 selects bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
