package transport

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/google/uuid"
)

// Sign computes the X-TC-Signature header value.
//
// The signed string is
//
//	METHOD \n X-TC-Key=<key>&X-TC-Nonce=<nonce>&X-TC-Timestamp=<ts> \n URI \n BODY
//
// and the result is base64(hex(HMAC-SHA256(secretKey, signed))).
// uri is the request path including its query string.
func Sign(secretKey, method, uri, body, key, nonce string, ts int64) string {
	headers := "X-TC-Key=" + key + "&X-TC-Nonce=" + nonce + "&X-TC-Timestamp=" + strconv.FormatInt(ts, 10)
	signed := method + "\n" + headers + "\n" + uri + "\n" + body

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(signed))
	return base64.StdEncoding.EncodeToString([]byte(hex.EncodeToString(mac.Sum(nil))))
}

// Nonce derives a positive decimal nonce from id.
func Nonce(id uuid.UUID) string {
	n := binary.BigEndian.Uint32(id[:4]) & 0x7fffffff
	if n == 0 {
		n = 1
	}
	return strconv.FormatUint(uint64(n), 10)
}
