package response

import "net/http"

// WriteSuccess wraps data in the success envelope. 204 answers carry no body.
func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	var body any
	if status != http.StatusNoContent {
		body = SuccessEnvelope{Success: true, Data: data}
	}
	if err := writeJSON(w, status, body); err != nil {
		h.Log.Error("failed to encode success response", "error", err, "path", r.URL.Path, "status", status)
	}
}
