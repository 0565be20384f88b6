package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/carbocation/tshcqc"
)

func HTTPError(h *handler, w http.ResponseWriter, r *http.Request, err error, code ...int) {
	usedCode := statusFor(err)
	if len(code) > 0 {
		usedCode = code[0]
	}
	w.WriteHeader(usedCode)
	h.log.Println(r.Host, r.URL.Path, ":", usedCode, err)

	output := struct {
		StatusCode     int
		StatusCodeText string
		Error          string
	}{
		StatusCode:     usedCode,
		StatusCodeText: http.StatusText(usedCode),
		Error:          err.Error(),
	}

	/*
		Built from the Render() function, but not calling Render()
		to avoid possibility of infinite loop
	*/
	page := Page{
		Title:  "Error",
		Site:   h.Global.Site,
		Lab:    h.Global.Lab,
		Assets: h.Assets(),
		Data:   output,
	}

	tpl, tplErr := h.Template("error.html")
	if tplErr == nil {
		tplErr = tpl.ExecuteTemplate(w, BaseFilename, page)
	}
	if tplErr != nil {
		fmt.Fprintf(w, "Error (%d) (%v) with %+v", output.StatusCode, tplErr, page)
	}
}

// statusFor maps the QC error kinds onto HTTP statuses.
func statusFor(err error) int {
	if errors.Is(err, os.ErrNotExist) {
		return http.StatusNotFound
	}

	switch tshcqc.ExitCode(err) {
	case tshcqc.ExitMissingArtifact:
		return http.StatusNotFound
	case tshcqc.ExitBadInput:
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}
