package middleware

import "net/http"

// LimitBytes — жёсткий лимит на тело запроса; превышение обрывает чтение
// с 413 внутри http.MaxBytesReader.
func LimitBytes(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
