package util

import (
	"crypto/md5"
	"encoding/hex"
)

// BytesMD5 计算字节数组MD5
func BytesMD5(data ...[]byte) string {
	hash := md5.New()
	for _, d := range data {
		hash.Write(d)
	}
	return hex.EncodeToString(hash.Sum(nil))
}
