package utils

import (
	"crypto/rand"
	"fmt"
)

func GenerateOTP() string {
	// Generate a 6-digit OTP
	var buf [4]byte
	rand.Read(buf[:])
	n := int(buf[0])<<16 | int(buf[1])<<8 | int(buf[2])
	return fmt.Sprintf("%06d", n%1000000)
}
