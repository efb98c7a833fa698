package misc

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

type Status struct {
	Status string `json:"status"`
	Msg    string `json:"msg,omitempty"`
	Id     string `json:"id,omitempty"`
}

func StatusErr(msg string) *Status {
	return &Status{Status: "error", Msg: msg}
}

func StatusOK(id string) *Status {
	return &Status{Status: "success", Id: id}
}

func BindJSON(c *gin.Context, v interface{}) error {
	body := c.Request.Body
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

func WriteJSON(c *gin.Context, code int, v interface{}) error {
	c.Writer.Header().Set("Content-Type", gin.MIMEJSON)
	c.Status(code)
	return json.NewEncoder(c.Writer).Encode(v)
}
