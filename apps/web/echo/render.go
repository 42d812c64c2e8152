package echoweb

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trezcool/edutracker/assets"
	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/grading"
	"github.com/trezcool/edutracker/core/journal"
)

var (
	webTemplatesDir = "templates/web"

	pages     map[string]*template.Template // {screen: layout + partials + page}
	pagesOnce sync.Once
	pagesErr  error

	screenRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edutracker_screen_renders_total",
			Help: "Number of screens rendered, by screen name.",
		},
		[]string{"screen"},
	)
)

var funcMap = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"longDate": func(t time.Time) string { return t.Format("Monday, January 2, 2006") },
	"datetime": func(t time.Time) string { return t.Format("Jan 2, 2006 3:04 PM") },
	"isoDate":  func(t time.Time) string { return t.Format(core.DateLayout) },
	"datePtr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"pct":   func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) + "%" },
	"num":   func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
	"fixed": func(prec int, f float64) string { return strconv.FormatFloat(f, 'f', prec, 64) },
	"score": func(f *float64) string {
		if f == nil {
			return "-"
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	},
	"letter": grading.Letter,
	"band":   grading.BandOf,
	"lower":  strings.ToLower,
	"slug":   core.Slugify,
	"join":   strings.Join,
	"str":    func(v interface{}) string { return fmt.Sprint(v) },
	"add":    func(a, b int) int { return a + b },
	"initials": func(name string) string {
		var out []rune
		for _, word := range strings.Fields(name) {
			out = append(out, []rune(word)[0])
		}
		return strings.ToUpper(string(out))
	},
	"markdown": journal.Render,
	"modalURL": ModalURL,
	"link": func(p string, kv ...string) string {
		q := make(url.Values)
		for i := 0; i+1 < len(kv); i += 2 {
			if kv[i+1] != "" {
				q.Set(kv[i], kv[i+1])
			}
		}
		if len(q) == 0 {
			return p
		}
		return p + "?" + q.Encode()
	},
	"cellScore": func(row gradebook.StudentRow, assignmentID int) string {
		if score, ok := row.Score(assignmentID); ok {
			return strconv.FormatFloat(score, 'f', -1, 64)
		}
		return "-"
	},
}

func loadPages() {
	pagesOnce.Do(func() {
		pages, pagesErr = parsePages(assets.FS)
	})
}

// parsePages builds one template set per screen: the layout and partials, plus the page content.
func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	base, err := template.New("").Funcs(funcMap).ParseFS(fsys,
		path.Join(webTemplatesDir, "layout.gohtml"),
		path.Join(webTemplatesDir, "partials", "*.gohtml"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "parsing layout")
	}

	files, err := fs.Glob(fsys, path.Join(webTemplatesDir, "pages", "*.gohtml"))
	if err != nil {
		return nil, errors.Wrap(err, "listing pages")
	}
	parsed := make(map[string]*template.Template, len(files))
	for _, file := range files {
		tmpl, err := base.Clone()
		if err != nil {
			return nil, errors.Wrap(err, "cloning layout")
		}
		if tmpl, err = tmpl.ParseFS(fsys, file); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", file)
		}
		parsed[strings.TrimSuffix(path.Base(file), ".gohtml")] = tmpl
	}
	return parsed, nil
}

// templateRenderer renders screens into the application layout.
type templateRenderer struct{}

var _ echo.Renderer = (*templateRenderer)(nil) // interface compliance check

func (templateRenderer) Render(w io.Writer, screen string, data interface{}, _ echo.Context) error {
	loadPages()
	if pagesErr != nil {
		return pagesErr
	}
	tmpl, ok := pages[screen]
	if !ok {
		return errors.Errorf("unknown screen %q", screen)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return errors.Wrapf(err, "rendering %s", screen)
	}
	screenRenders.WithLabelValues(screen).Inc()
	return nil
}

// Page is what a handler renders: a screen and its data.
type Page struct {
	Screen string
	Title  string
	Data   interface{}
	Errors map[string]string // form field errors
	Notice string

	gradeEdit *gradeEditView // a rejected grade form to show again
}

// view is the template data of every screen.
type view struct {
	Page
	AppName string
	URL     *url.URL
	Shell   Shell
	Nav     []NavLink
	ShowNav bool

	GradeEdit     *gradeEditView
	GradeHistory  *gradebook.History
	CloseModalURL string
}

func (s *Server) render(ctx echo.Context, code int, page Page) error {
	req := ctx.Request()
	sh := getContextShell(ctx)

	v := view{
		Page:          page,
		AppName:       s.deps.Conf.AppName,
		URL:           req.URL,
		Shell:         sh,
		Nav:           Navigation(req.URL.Path),
		ShowNav:       sh.Authenticated && ShowNavigation(req.URL.Path),
		CloseModalURL: ModalURL(req.URL, ""),
	}

	if sh.Authenticated {
		if page.gradeEdit != nil {
			v.GradeEdit = page.gradeEdit
		} else if sh.ShowGradeEditModal {
			edit, err := s.loadGradeEdit(ctx)
			if err != nil {
				return err
			}
			v.GradeEdit = &edit
		}
		if sh.ShowGradeHistoryModal {
			hist, err := s.loadGradeHistory(ctx)
			if err != nil {
				return err
			}
			v.GradeHistory = hist
		}
	}
	return ctx.Render(code, page.Screen, v)
}
