package controllers

import (
	"github.com/gin-gonic/gin"
)

func replyWithError(ctx *gin.Context, status, errCode int, errMsg string) {
	ctx.JSON(status, struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}{
		ErrCode: errCode,
		ErrMsg:  errMsg,
	})
}
