package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/clarktrimble/sabot"
	"github.com/pkg/errors"

	"extract"
	"extract/browse"
	nt "extract/entity"
	"extract/store/duck"
	"extract/store/gormdb"
	"extract/style"
	"extract/util"
)

//go:embed sample.yaml
var sample []byte

const cellWidth = 32

// Config is the yaml config for the extract cli.
type Config struct {
	Store   StoreConfig    `yaml:"store"`
	Log     util.LogConfig `yaml:"log"`
	Extract extract.Config `yaml:"extract"`
	Load    []LoadConfig   `yaml:"load"`
}

// StoreConfig picks a store; driver is "duck" or "gorm".
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Dsn    string `yaml:"dsn"`
}

// LoadConfig names a file to load as a source into a duck store.
type LoadConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type store interface {
	extract.Store
	Close() error
}

func main() {

	cfgPath := flag.String("c", "extract.yaml", "config file")
	flag.Usage = usage
	flag.Parse()

	os.Exit(run(*cfgPath, flag.Args()))
}

// run executes a command and returns the exit code, once the store and log are closed.
func run(cfgPath string, args []string) int {

	if len(args) < 1 {
		usage()
		return 2
	}

	if args[0] == "sample" {
		err := util.SampleConfig(sample, cfgPath, 0644)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("sample config at %s\n", cfgPath)
		return 0
	}

	cfg := &Config{}
	err := util.LoadConfig(cfg, cfgPath)
	if err != nil {
		return fail(err)
	}

	logFile := util.OpenLog(cfg.Log)
	defer util.CloseLog(logFile)
	lgr := &sabot.Sabot{Writer: logFile}

	ctx := context.Background()

	st, err := openStore(ctx, cfg, lgr)
	if err != nil {
		lgr.Error(ctx, "failed to open store", err, "driver", cfg.Store.Driver)
		return fail(err)
	}
	defer st.Close()

	ex := cfg.Extract.New(st, lgr)

	err = command(ctx, ex, lgr, args)
	if err != nil {
		lgr.Error(ctx, "command failed", err, "command", args[0])
		return fail(err)
	}
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [-c config.yaml] <command>

Commands:
  sample                 write a sample config
  sources                list configured sources
  preview-source <src>   show the first rows of a source
  preview <draft.yaml>   compile a draft and show sql and first rows
  save <draft.yaml>      preview a draft, then save it as a view and configuration
  list                   list saved configurations, most recent first
  show <name>            show a saved configuration
  draft <name> <path>    write a saved configuration as a draft for a new version
  browse                 browse saved configurations
`, os.Args[0])
}

func openStore(ctx context.Context, cfg *Config, lgr nt.Logger) (st store, err error) {

	switch cfg.Store.Driver {
	case "gorm":
		st, err = gormdb.Open(cfg.Store.Dsn, lgr)
		return
	case "duck", "":
	default:
		err = errors.Errorf("unknown store driver %q", cfg.Store.Driver)
		return
	}

	dk, err := duck.New(cfg.Store.Dsn, lgr)
	if err != nil {
		return
	}

	for _, load := range cfg.Load {
		err = dk.LoadSource(ctx, load.Name, load.Path)
		if err != nil {
			dk.Close()
			return
		}
	}

	lgr.Info(ctx, "opened duck store", "name", dk.Name(), "sources", len(cfg.Load))
	st = dk
	return
}

func command(ctx context.Context, ex *extract.Extract, lgr nt.Logger, args []string) (err error) {

	arg := func() (string, error) {
		if len(args) < 2 {
			return "", errors.Errorf("%s needs an argument", args[0])
		}
		return args[1], nil
	}

	switch args[0] {
	case "sources":
		for _, src := range ex.Sources() {
			fmt.Printf("%s\t%v\n", src.Name, src.Columns)
		}

	case "preview-source":
		var source string
		source, err = arg()
		if err != nil {
			return
		}

		var result nt.Result
		result, err = ex.PreviewSource(ctx, source)
		if err != nil {
			return
		}
		fmt.Println(style.Result(result, cellWidth))

	case "preview", "save":
		var path string
		path, err = arg()
		if err != nil {
			return
		}
		err = previewAndSave(ctx, ex, path, args[0] == "save")

	case "list":
		var names []string
		names, err = ex.ListConfigNames(ctx)
		if err != nil {
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}

	case "show":
		var name string
		name, err = arg()
		if err != nil {
			return
		}

		var cfg nt.Configuration
		cfg, err = ex.Config(ctx, name)
		if err != nil {
			return
		}
		fmt.Printf("id:      %s\nname:    %s\nsource:  %s\nview:    %s\ncreated: %s\n\n%s\n",
			cfg.Id, cfg.Name, cfg.Source, cfg.View, nt.FormatTime(cfg.CreatedAt), style.SqlStyle.Render(cfg.Sql))

	case "draft":
		if len(args) < 3 {
			err = errors.Errorf("draft needs a configuration name and a path")
			return
		}

		var cfg nt.Configuration
		cfg, err = ex.Config(ctx, args[1])
		if err != nil {
			return
		}

		err = extract.WriteDraft(extract.DraftOf(cfg), args[2])
		if err != nil {
			return
		}
		fmt.Printf("draft of %s written to %s\n", cfg.Name, args[2])

	case "browse":
		_, err = tea.NewProgram(browse.New(ctx, ex, lgr)).Run()

	default:
		err = errors.Errorf("unknown command %q", args[0])
	}

	return
}

func previewAndSave(ctx context.Context, ex *extract.Extract, path string, save bool) (err error) {

	draft, err := extract.LoadDraft(path)
	if err != nil {
		return
	}

	sess, err := ex.Open(ctx, draft)
	if err != nil {
		return
	}

	result, err := ex.Preview(ctx, sess)
	if err != nil {
		return
	}

	fmt.Println(style.SqlStyle.Render(sess.SQL()))
	fmt.Println()
	fmt.Println(style.Result(result, cellWidth))

	if !save {
		return
	}

	cfg, err := ex.Save(ctx, sess, draft.Naming)
	var partial *extract.PartialSaveError
	if errors.As(err, &partial) {
		fmt.Fprintf(os.Stderr, "view %s was created, but configuration %q was not saved\n", partial.View, partial.Name)
	}
	if err != nil {
		return
	}

	fmt.Printf("\nview %s created and configuration %q saved as %s\n", cfg.View, cfg.Name, cfg.Id)
	return
}

func fail(err error) int {

	fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(err.Error()))
	return 1
}
