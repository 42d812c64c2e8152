package echoweb

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core/reports"
	"github.com/trezcool/edutracker/core/user"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type loginData struct {
	Form  user.Credentials
	Roles []user.RoleOption
}

func (s *Server) loginForm(ctx echo.Context) error {
	page := Page{
		Screen: ScreenLogin,
		Title:  "Sign In",
		Data:   loginData{Form: user.Credentials{Role: string(user.RoleTeacher)}, Roles: user.Roles},
	}
	if ctx.QueryParam("registered") == "true" {
		page.Notice = "Your account has been created. You can now sign in."
	}
	return s.render(ctx, http.StatusOK, page)
}

func (s *Server) login(ctx echo.Context) error {
	var cred user.Credentials
	if err := bindForm(ctx, &cred); err != nil {
		return err
	}

	usr, err := s.authenticate(&cred)
	if err != nil {
		fields, ok := s.fieldErrors(err)
		if !ok {
			return err
		}
		cred.Password = ""
		return s.render(ctx, http.StatusBadRequest, Page{
			Screen: ScreenLogin,
			Title:  "Sign In",
			Data:   loginData{Form: cred, Roles: user.Roles},
			Errors: fields,
		})
	}

	sh := getContextShell(ctx)
	sh.Authenticated = true
	sh.Role = usr.Role
	sh.UserID = usr.ID
	sh.Name = usr.Name
	sh.StudentID = usr.StudentID
	if err = s.sessions.save(ctx, sh); err != nil {
		return err
	}
	if sh.IsStudent() {
		return redirect(ctx, "/student-dashboard")
	}
	return redirect(ctx, "/")
}

// authenticate turns bad credentials into a form error.
func (s *Server) authenticate(cred *user.Credentials) (user.User, error) {
	if err := cred.Validate(s.deps.Validate); err != nil {
		return user.User{}, err
	}
	usr, err := s.deps.UserSvc.Authenticate(*cred)
	if errors.Cause(err) == user.ErrInvalidCredentials {
		return user.User{}, newFormError(err)
	}
	return usr, err
}

func (s *Server) logout(ctx echo.Context) error {
	sh := getContextShell(ctx)
	sh.Authenticated = false
	sh.UserID = 0
	if err := s.sessions.save(ctx, sh); err != nil {
		return err
	}
	return redirect(ctx, "/")
}

type registerData struct {
	Form  user.NewUser
	Roles []user.RoleOption
}

func (s *Server) registerForm(ctx echo.Context) error {
	return s.render(ctx, http.StatusOK, Page{
		Screen: ScreenRegister,
		Title:  "Create Account",
		Data:   registerData{Form: user.NewUser{Role: string(user.RoleStudent)}, Roles: user.Roles},
	})
}

func (s *Server) register(ctx echo.Context) error {
	var nu user.NewUser
	if err := bindForm(ctx, &nu); err != nil {
		return err
	}

	err := nu.Validate(s.deps.Validate)
	if err == nil {
		_, err = s.deps.UserSvc.Register(nu)
	}
	if err == nil {
		return redirect(ctx, "/login?registered=true")
	}

	fields, ok := s.fieldErrors(err)
	if !ok {
		return err
	}
	nu.Password, nu.PasswordConfirm = "", ""
	return s.render(ctx, http.StatusBadRequest, Page{
		Screen: ScreenRegister,
		Title:  "Create Account",
		Data:   registerData{Form: nu, Roles: user.Roles},
		Errors: fields,
	})
}

func (s *Server) reports(ctx echo.Context) error {
	var filter reports.Filter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	sh := getContextShell(ctx)
	v, err := s.deps.ReportsSvc.GetView(sh.Role, sh.studentID(), filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenReports, Title: "Reports", Data: v})
}

// exportReport downloads the selected report as a workbook.
func (s *Server) exportReport(ctx echo.Context) error {
	var filter reports.Filter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	sh := getContextShell(ctx)
	buf, filename, err := s.deps.ReportsSvc.Export(sh.Role, sh.studentID(), filter)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
