package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

// per-request client state: a short request id for log correlation, the
// negotiated language, and a localizer for static labels

type clientOpts struct {
	debug   bool
	verbose bool
}

type clientContext struct {
	reqID     string
	opts      clientOpts
	lang      string
	localizer *i18n.Localizer
	log       *zap.SugaredLogger
}

func (svc *serviceContext) newClientContext(c *gin.Context) *clientContext {
	cl := &clientContext{}

	cl.reqID = fmt.Sprintf("%08x", rand.Uint32())

	cl.opts.debug = boolOptionWithFallback(c.Query("debug"), false)
	cl.opts.verbose = boolOptionWithFallback(c.Query("verbose"), false)

	cl.lang = svc.negotiateLanguage(c.GetHeader("Accept-Language"))
	cl.localizer = i18n.NewLocalizer(svc.translations, cl.lang)

	cl.log = svc.log.With("req", cl.reqID)

	cl.infof("%s %s (lang: %s)", c.Request.Method, c.Request.URL.String(), cl.lang)

	return cl
}

// first configured language wins when the client's preference is unknown
func (svc *serviceContext) negotiateLanguage(acceptLang string) string {
	fallback := firstElementOf(svc.config.Languages)

	for _, part := range strings.Split(acceptLang, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		base := strings.Split(tag, "-")[0]

		if sliceContainsString(svc.config.Languages, base, true) == true {
			return strings.ToLower(base)
		}
	}

	return fallback
}

func (cl *clientContext) infof(format string, args ...interface{}) {
	cl.log.Infof(format, args...)
}

func (cl *clientContext) warnf(format string, args ...interface{}) {
	cl.log.Warnf(format, args...)
}

func (cl *clientContext) errorf(format string, args ...interface{}) {
	cl.log.Errorf(format, args...)
}

func (cl *clientContext) debugf(format string, args ...interface{}) {
	if cl.opts.debug == false {
		return
	}

	cl.log.Infof(format, args...)
}

func (cl *clientContext) localize(xid string) string {
	label, err := cl.localizer.Localize(&i18n.LocalizeConfig{MessageID: xid})
	if err != nil {
		return xid
	}

	return label
}
