package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// MultiByteNetwork имя сети из runes символов по 4 байта: проходит по длине в рунах, но не в байтах.
func MultiByteNetwork(runes int) string {
	return strings.Repeat("📶", runes)
}

// JSONBody сериализует v в тело запроса. Ошибка сериализации в тестах - ошибка самого теста, поэтому паника.
func JSONBody(v any) io.Reader {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(data)
}
