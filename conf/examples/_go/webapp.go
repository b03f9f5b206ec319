// Set script.file = "webapp.go" to serve this instead of webapp.js.
package main

import (
	"net/http"

	"webapp"
)

func Handle(logger *webapp.Logger, request *webapp.Request, response *webapp.Response) {
	logger.Info("webapp request", request.Method(), request.Path())

	if request.Method() == http.MethodPost {
		payload, err := request.ParseJSON()
		if err != nil {
			response.SetStatus(http.StatusBadRequest)
			_, _ = response.Write(err.Error())
			return
		}
		response.SetStatus(http.StatusAccepted)
		_ = response.WriteJSON(map[string]any{"accepted": true, "received": payload})
		return
	}
	response.SetHeader("Content-Type", "text/plain; charset=utf-8")
	_, _ = response.Write("hello from " + request.Path() + "\n")
}
