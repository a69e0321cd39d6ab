package auth

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// DefaultResetCodeLength - число цифр в коде восстановления
const DefaultResetCodeLength = 6

var ErrInvalidCodeLength = errors.New("reset code length must be between 4 and 12")

// GenerateNumericCode возвращает равномерно распределенный код из length цифр
// (ведущие нули сохраняются). source должен быть криптостойким, в проде это crypto/rand.Reader.
func GenerateNumericCode(source io.Reader, length int) (string, error) {
	if length < 4 || length > 12 {
		return "", ErrInvalidCodeLength
	}
	if source == nil {
		source = rand.Reader
	}

	limit := uint64(math.Pow10(length))
	// отбрасываем хвост диапазона uint64, иначе младшие коды выпадают чаще
	ceiling := math.MaxUint64 - math.MaxUint64%limit

	var buf [8]byte
	for {
		if _, err := io.ReadFull(source, buf[:]); err != nil {
			return "", fmt.Errorf("generate reset code: %w", err)
		}
		n := binary.BigEndian.Uint64(buf[:])
		if n < ceiling {
			return fmt.Sprintf("%0*d", length, n%limit), nil
		}
	}
}
