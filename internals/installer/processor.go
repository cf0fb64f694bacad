package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magiconair/properties"
	"github.com/mholt/archiver/v3"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrMissingMinecraftJar is returned when the vanilla jar does not exist before processing
	ErrMissingMinecraftJar = errors.New("minecraft jar is missing")
	// ErrNoMainClass is returned for processor jars without a Main-Class
	ErrNoMainClass = errors.New("processor jar has no Main-Class")
	// ErrOutputMismatch is returned when a processor output has the wrong sha1
	ErrOutputMismatch = errors.New("processor output does not match")
)

// ProcessorError is returned when a processor could not be run or failed
type ProcessorError struct {
	// Jar is the maven coordinate of the processor
	Jar      string
	ExitCode int
	Err      error
}

func (e *ProcessorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("processor %s failed: %s", e.Jar, e.Err)
	}
	return fmt.Sprintf("processor %s failed with exit code %d", e.Jar, e.ExitCode)
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}

// Interpreter runs the processor chain of an install profile
type Interpreter struct {
	Runner Runner
	// Java is the java executable, defaults to "java"
	Java    string
	Timeout time.Duration
	Logger  *zap.Logger
	// OnProcessor is called before each processor runs
	OnProcessor func(index int, total int, jar string)
}

// Run executes every client processor of profile in order. The first failure stops the chain.
func (i *Interpreter) Run(ctx context.Context, profile *Profile, env Environment) error {
	if _, err := os.Stat(env.MinecraftJar); err != nil {
		return errors.Wrap(ErrMissingMinecraftJar, env.MinecraftJar)
	}

	vars := NewVariables(profile, env)
	processors := make([]Processor, 0, len(profile.Processors))
	for _, p := range profile.Processors {
		if p.RunsOn(SideClient) {
			processors = append(processors, p)
		}
	}

	for n, p := range processors {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i.OnProcessor != nil {
			i.OnProcessor(n+1, len(processors), p.Jar)
		}
		if err := i.runOne(ctx, &p, vars, env); err != nil {
			return err
		}
	}
	return nil
}

// Tool builds the invocation of a processor
func (i *Interpreter) Tool(p *Processor, vars *Variables, librariesDir string) (ExternalTool, error) {
	jarPath, err := mavenFile(librariesDir, p.Jar)
	if err != nil {
		return ExternalTool{}, err
	}
	mainClass, err := MainClass(jarPath)
	if err != nil {
		return ExternalTool{}, err
	}

	classpath := []string{jarPath}
	for _, lib := range p.Classpath {
		path, err := mavenFile(librariesDir, lib)
		if err != nil {
			return ExternalTool{}, err
		}
		classpath = append(classpath, path)
	}

	args, err := vars.ResolveAll(p.Args)
	if err != nil {
		return ExternalTool{}, err
	}

	java := i.Java
	if java == "" {
		java = "java"
	}
	return ExternalTool{
		Program:     java,
		Args:        append([]string{"-cp", strings.Join(classpath, string(os.PathListSeparator)), mainClass}, args...),
		Description: p.Jar,
	}, nil
}

func (i *Interpreter) runOne(ctx context.Context, p *Processor, vars *Variables, env Environment) error {
	logger := i.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tool, err := i.Tool(p, vars, env.LibrariesDir)
	if err != nil {
		return &ProcessorError{Jar: p.Jar, ExitCode: -1, Err: err}
	}

	timeout := i.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger.Info("running processor", zap.String("jar", p.Jar))
	code, err := i.Runner.Run(ctx, tool, env.Root, timeout)
	if err != nil {
		return &ProcessorError{Jar: p.Jar, ExitCode: code, Err: err}
	}
	if code != 0 {
		return &ProcessorError{Jar: p.Jar, ExitCode: code}
	}

	return i.checkOutputs(p, vars)
}

func (i *Interpreter) checkOutputs(p *Processor, vars *Variables) error {
	for rawFile, rawSha := range p.Outputs {
		file, err := vars.Resolve(rawFile)
		if err != nil {
			return &ProcessorError{Jar: p.Jar, Err: err}
		}
		sha, err := vars.Resolve(rawSha)
		if err != nil {
			return &ProcessorError{Jar: p.Jar, Err: err}
		}
		if err := downloadmgr.Verify(file, 0, sha); err != nil {
			return &ProcessorError{Jar: p.Jar, Err: errors.Wrapf(ErrOutputMismatch, "%s: %s", filepath.Base(file), err)}
		}
	}
	return nil
}

// MainClass reads the Main-Class of a jar's META-INF/MANIFEST.MF
func MainClass(jar string) (string, error) {
	var mainClass string
	err := archiver.NewZip().Walk(jar, func(f archiver.File) error {
		if entryName(f) != "META-INF/MANIFEST.MF" {
			return nil
		}
		raw, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
		manifest, err := loader.LoadBytes(raw)
		if err != nil {
			return err
		}
		mainClass = strings.TrimSpace(manifest.GetString("Main-Class", ""))
		return archiver.ErrStopWalk
	})
	if err != nil {
		return "", errors.Wrapf(err, "reading manifest of %s", filepath.Base(jar))
	}
	if mainClass == "" {
		return "", errors.Wrap(ErrNoMainClass, filepath.Base(jar))
	}
	return mainClass, nil
}
