package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// Tracing opens a server span per request. Without a started tracer the
// spans are no-ops.
func Tracing(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource := c.FullPath()
		if resource == "" {
			resource = "unmatched"
		}
		span, ctx := tracer.StartSpanFromContext(c.Request.Context(), "http.request",
			tracer.ServiceName(serviceName),
			tracer.SpanType(ext.SpanTypeWeb),
			tracer.ResourceName(c.Request.Method+" "+resource),
			tracer.Tag(ext.HTTPMethod, c.Request.Method),
			tracer.Tag(ext.HTTPURL, c.Request.URL.Path),
		)
		defer span.Finish()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetTag(ext.HTTPCode, strconv.Itoa(status))
		if status >= 500 {
			span.SetTag(ext.Error, true)
		}
	}
}
