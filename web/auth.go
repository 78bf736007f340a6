package webui

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/auth"
	"github.com/matriculapp/academico/core/session"
)

type authPages struct {
	svc        *auth.Service
	sessions   *session.Store
	validate   *validator.Validate
	translator ut.Translator
}

func registerAuthPages(
	app *echo.Echo,
	publicOnly, loginRequired echo.MiddlewareFunc,
	svc *auth.Service,
	sessions *session.Store,
	validate *validator.Validate,
	translator ut.Translator,
) {
	pages := authPages{svc: svc, sessions: sessions, validate: validate, translator: translator}

	app.GET("/", pages.home, publicOnly)
	app.GET("/login", pages.loginForm, publicOnly)
	app.POST("/login", pages.login, publicOnly)
	app.GET("/register", pages.registerForm, publicOnly)
	app.POST("/register", pages.register, publicOnly)
	app.GET("/confirm/:token", pages.confirmEmail)
	app.POST("/logout", pages.logout, loginRequired)
}

// authPage is the data the login/register templates receive on top of page.
type authPage struct {
	Form        interface{}
	FieldErrors map[string]string
}

func (p *authPages) home(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "home", page{Title: core.Conf.GetString("appName")})
}

func (p *authPages) loginForm(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "login", page{Title: "Iniciar sesión", Data: authPage{Form: auth.Credentials{}}})
}

func (p *authPages) login(ctx echo.Context) error {
	var creds auth.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	render := func(fieldErrs map[string]string, errMsg string) error {
		creds.Password = ""
		return ctx.Render(http.StatusOK, "login", page{
			Title: "Iniciar sesión",
			Error: errMsg,
			Data:  authPage{Form: creds, FieldErrors: fieldErrs},
		})
	}

	if err := creds.Validate(p.validate, p.translator); err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			return render(vErr.FieldMap(), "")
		}
		return err
	}
	if err := p.svc.Login(ctx.Request().Context(), creds); err != nil {
		return render(nil, err.Error())
	}
	return ctx.Redirect(http.StatusFound, "/dashboard")
}

func (p *authPages) registerForm(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "register", page{Title: "Crear cuenta", Data: authPage{Form: auth.Registration{}}})
}

func (p *authPages) register(ctx echo.Context) error {
	var reg auth.Registration
	if err := ctx.Bind(&reg); err != nil {
		return errors.Wrap(err, "binding to Registration")
	}

	render := func(fieldErrs map[string]string, notice, errMsg string) error {
		reg.Password = ""
		reg.ConfirmPassword = ""
		return ctx.Render(http.StatusOK, "register", page{
			Title:  "Crear cuenta",
			Notice: notice,
			Error:  errMsg,
			Data:   authPage{Form: reg, FieldErrors: fieldErrs},
		})
	}

	if err := reg.Validate(p.validate, p.translator); err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			return render(vErr.FieldMap(), "", "")
		}
		return err
	}
	msg, err := p.svc.Register(ctx.Request().Context(), reg)
	if err != nil {
		return render(nil, "", err.Error())
	}
	return render(nil, msg, "")
}

func (p *authPages) confirmEmail(ctx echo.Context) error {
	msg, err := p.svc.ConfirmEmail(ctx.Request().Context(), ctx.Param("token"))
	data := page{Title: "Confirmación de cuenta", Notice: msg}
	if err != nil {
		data.Error = err.Error()
	}
	return ctx.Render(http.StatusOK, "confirm", data)
}

func (p *authPages) logout(ctx echo.Context) error {
	if err := p.svc.Logout(); err != nil {
		return errors.Wrap(err, "closing session")
	}
	return ctx.Redirect(http.StatusFound, "/login")
}
