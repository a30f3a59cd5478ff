package misc

import (
	"bytes"
	"errors"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// BindingPathID parse path parameter 'id' as types.ID
func BindingPathID(c *gin.Context) (types.ID, error) {
	return BindingPathParamID(c, "id")
}

func BindingPathParamID(c *gin.Context, name string) (types.ID, error) {
	raw := c.Param(name)
	id, err := types.ParseID(raw)
	if err != nil {
		return 0, errors.New("invalid " + name + " '" + raw + "'")
	}
	return id, nil
}

func StringReader(s string) *bytes.Reader {
	return bytes.NewReader([]byte(s))
}
