package services

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const orderNumberPrefix = "ORD-"

// GenerateOrderNumber builds the externally visible order reference:
// prefix, unix-timestamp, three random digits. The random suffix comes
// from a UUID so two orders created in the same second still diverge;
// the unique constraint on the column backstops the residual 1-in-1000.
func GenerateOrderNumber() string {
	id := uuid.New()
	suffix := binary.BigEndian.Uint32(id[:4]) % 1000
	return fmt.Sprintf("%s%d%03d", orderNumberPrefix, time.Now().Unix(), suffix)
}
