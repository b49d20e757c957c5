package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

// defaultArticlePageSize is used when the settings carry no page size.
const defaultArticlePageSize = 10

func init() {
	Register(&ArticlesCmd{})
	Register(&ArticleCmd{})
	Register(&ArticleAddCmd{})
	Register(&ArticleEditCmd{})
	Register(&ArticleRmCmd{})
}

// ArticlesCmd lists articles one page at a time.
type ArticlesCmd struct {
	page   int
	limit  int
	format string
}

// SetPage sets the page number (for testing).
func (c *ArticlesCmd) SetPage(page int) {
	c.page = page
}

func (c *ArticlesCmd) Name() string       { return "articles" }
func (c *ArticlesCmd) Aliases() []string  { return nil }
func (c *ArticlesCmd) Synopsis() string   { return "List articles" }
func (c *ArticlesCmd) Usage() string      { return "taskdeck articles [--page <n>] [--limit <n>] [--format text|json|yaml]" }
func (c *ArticlesCmd) NeedsBackend() bool { return true }

func (c *ArticlesCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.page, "page", 1, "")
	fs.IntVar(&c.limit, "limit", 0, "")
	fs.StringVar(&c.format, "format", "text", "")
}

func (c *ArticlesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.page < 1 {
		return usageError(errOut, "invalid page number: %d", c.page)
	}
	limit := c.limit
	if limit == 0 {
		limit = cfg.Settings.ArticlePageSize
	}
	if limit == 0 {
		limit = defaultArticlePageSize
	}
	if limit < 0 {
		return usageError(errOut, "invalid limit: %d", c.limit)
	}
	format, err := output.ParseFormat(c.format)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	articles, err := svc.ListArticles(ctx, (c.page-1)*limit, limit)
	if err != nil {
		return fail(errOut, err)
	}

	if format != output.FormatText {
		if articles == nil {
			articles = []service.Article{}
		}
		if err := output.Encode(out, format, articles); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}

	if len(articles) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no articles found")
		}
		return exitcode.Success
	}
	for _, a := range articles {
		output.FormatArticle(out, a)
	}
	return exitcode.Success
}

// ArticleCmd shows one article.
type ArticleCmd struct {
	html   bool
	format string
}

func (c *ArticleCmd) Name() string       { return "article" }
func (c *ArticleCmd) Aliases() []string  { return []string{"read"} }
func (c *ArticleCmd) Synopsis() string   { return "Show an article" }
func (c *ArticleCmd) Usage() string      { return "taskdeck article [--html] [--format text|json|yaml] <id>" }
func (c *ArticleCmd) NeedsBackend() bool { return true }

func (c *ArticleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.html, "html", false, "")
	fs.StringVar(&c.format, "format", "text", "")
}

func (c *ArticleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseArticleID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	format, err := output.ParseFormat(c.format)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	article, err := svc.GetArticle(ctx, id)
	if err != nil {
		return fail(errOut, err)
	}

	switch {
	case c.html:
		html, err := output.MarkdownToHTML(article.Content)
		if err != nil {
			return fail(errOut, err)
		}
		fmt.Fprint(out, html)
	case format != output.FormatText:
		if err := output.Encode(out, format, article); err != nil {
			return fail(errOut, err)
		}
	default:
		output.FormatArticleDetail(out, article)
	}
	return exitcode.Success
}

// articleFlags are the fields shared by article-add and article-edit.
type articleFlags struct {
	content  optString
	file     optString
	summary  optString
	category optString
	tags     optString
}

func (f *articleFlags) register(fs *flag.FlagSet) {
	fs.Var(&f.content, "content", "")
	fs.Var(&f.content, "c", "")
	fs.Var(&f.file, "file", "")
	fs.Var(&f.summary, "summary", "")
	fs.Var(&f.category, "category", "")
	fs.Var(&f.tags, "tags", "")
	fs.Var(&f.tags, "t", "")
}

// contentValue returns the content from --content or --file, or nil if
// neither was given.
func (f *articleFlags) contentValue() (*string, error) {
	if f.content.set && f.file.set {
		return nil, fmt.Errorf("cannot use both --content and --file")
	}
	if f.file.set {
		data, err := os.ReadFile(f.file.value)
		if err != nil {
			return nil, fmt.Errorf("failed to read content: %w", err)
		}
		s := string(data)
		return &s, nil
	}
	return f.content.ptr(), nil
}

// ArticleAddCmd creates an article.
type ArticleAddCmd struct {
	flags articleFlags
}

func (c *ArticleAddCmd) Name() string      { return "article-add" }
func (c *ArticleAddCmd) Aliases() []string { return nil }
func (c *ArticleAddCmd) Synopsis() string  { return "Create an article" }
func (c *ArticleAddCmd) Usage() string {
	return "taskdeck article-add (--content <md> | --file <path>) [--summary <text>] [--category <name>] [--tags a,b] <title...>"
}
func (c *ArticleAddCmd) NeedsBackend() bool { return true }

func (c *ArticleAddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *ArticleAddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return usageError(errOut, "title required")
	}
	content, err := c.flags.contentValue()
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if content == nil || strings.TrimSpace(*content) == "" {
		return usageError(errOut, "content required")
	}

	article, err := svc.CreateArticle(ctx, service.ArticleDraft{
		Title:    title,
		Content:  *content,
		Summary:  c.flags.summary.value,
		Category: c.flags.category.value,
		Tags:     service.SplitTags(c.flags.tags.value),
	})
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatArticle(out, article)
	}
	return exitcode.Success
}

// ArticleEditCmd changes article fields. Only flags given are sent.
type ArticleEditCmd struct {
	title optString
	flags articleFlags
}

func (c *ArticleEditCmd) Name() string      { return "article-edit" }
func (c *ArticleEditCmd) Aliases() []string { return nil }
func (c *ArticleEditCmd) Synopsis() string  { return "Change article fields" }
func (c *ArticleEditCmd) Usage() string {
	return "taskdeck article-edit [--title <text>] [--content <md> | --file <path>] [--summary <text>] [--category <name>] [--tags a,b] <id>"
}
func (c *ArticleEditCmd) NeedsBackend() bool { return true }

func (c *ArticleEditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	c.flags.register(fs)
}

func (c *ArticleEditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseArticleID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	var patch service.ArticlePatch
	if v := c.title.ptr(); v != nil {
		title := strings.TrimSpace(*v)
		if title == "" {
			return usageError(errOut, "title required")
		}
		patch.Title = &title
	}
	if patch.Content, err = c.flags.contentValue(); err != nil {
		return usageError(errOut, "%v", err)
	}
	patch.Summary = c.flags.summary.ptr()
	patch.Category = c.flags.category.ptr()
	if v := c.flags.tags.ptr(); v != nil {
		tags := service.SplitTags(*v)
		patch.Tags = &tags
	}
	if patch.Title == nil && patch.Content == nil && patch.Summary == nil && patch.Category == nil && patch.Tags == nil {
		return usageError(errOut, "nothing to change")
	}

	article, err := svc.UpdateArticle(ctx, id, patch)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatArticle(out, article)
	}
	return exitcode.Success
}

// ArticleRmCmd deletes an article.
type ArticleRmCmd struct{}

func (c *ArticleRmCmd) Name() string       { return "article-rm" }
func (c *ArticleRmCmd) Aliases() []string  { return []string{"article-delete"} }
func (c *ArticleRmCmd) Synopsis() string   { return "Delete an article" }
func (c *ArticleRmCmd) Usage() string      { return "taskdeck article-rm <id>" }
func (c *ArticleRmCmd) NeedsBackend() bool { return true }

func (c *ArticleRmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ArticleRmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseArticleID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if err := svc.DeleteArticle(ctx, id); err != nil {
		return fail(errOut, err)
	}
	return ok(cfg, out)
}
