package mockset

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/griffinmyers/wirepig/pkg/mock"
	"github.com/griffinmyers/wirepig/pkg/util"
)

// yamlFile is the top-level shape of a declarative mock-set file,
// grounded on pkg/engine/config_loader.go's store-backed loading (here
// a file replaces the store) and examples/with-config-file's intent of
// seeding a server from a checked-in fixture rather than code.
type yamlFile struct {
	Mocks []yamlMock `yaml:"mocks"`
}

type yamlMock struct {
	Name     string            `yaml:"name,omitempty"`
	Request  *yamlHTTPRequest  `yaml:"request,omitempty"`
	Response *yamlHTTPResponse `yaml:"response,omitempty"`
}

type yamlHTTPRequest struct {
	Method    string            `yaml:"method,omitempty"`
	Path      string            `yaml:"path,omitempty"`
	PathRegex string            `yaml:"pathRegex,omitempty"`
	Query     string            `yaml:"query,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	Body      string            `yaml:"body,omitempty"`
	Expr      string            `yaml:"expr,omitempty"`
}

type yamlHTTPResponse struct {
	Body          string            `yaml:"body,omitempty"`
	StatusCode    int               `yaml:"statusCode,omitempty"`
	Headers       map[string]string `yaml:"headers,omitempty"`
	HeaderDelayMs int               `yaml:"headerDelayMs,omitempty"`
	BodyDelayMs   int               `yaml:"bodyDelayMs,omitempty"`
	DestroySocket bool              `yaml:"destroySocket,omitempty"`
	Expr          string            `yaml:"expr,omitempty"`
}

// LoadYAML parses a declarative mock-set document and produces the
// same mock.Declaration values listener.Mock(Declaration) accepts.
// This is a pure addition on top of the core matching engine: it does
// not change any invariant, it just gives a test suite a second way to
// seed a listener's mocks.
func LoadYAML(data []byte) ([]mock.Declaration, error) {
	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("mockset: parse yaml: %w", err)
	}

	decls := make([]mock.Declaration, 0, len(doc.Mocks))
	for i, ym := range doc.Mocks {
		decl, err := ym.toDeclaration()
		if err != nil {
			return nil, fmt.Errorf("mockset: mocks[%d] %q: %w", i, ym.Name, err)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// LoadFile reads path and parses it with LoadYAML. path comes from a
// trusted operator (a CLI flag), so an absolute path is permitted, but
// it is still cleaned and checked for a directory-traversal escape
// before being handed to the filesystem.
func LoadFile(path string) ([]mock.Declaration, error) {
	safe, ok := util.SafeFilePathAllowAbsolute(path)
	if !ok {
		return nil, fmt.Errorf("mockset: unsafe mocks file path %q", path)
	}
	data, err := os.ReadFile(safe)
	if err != nil {
		return nil, fmt.Errorf("mockset: read %s: %w", safe, err)
	}
	return LoadYAML(data)
}

func (ym yamlMock) toDeclaration() (mock.Declaration, error) {
	decl := mock.Declaration{Name: ym.Name}

	if ym.Request != nil {
		r := ym.Request
		if r.Expr != "" {
			fn, err := CompilePredicateFunc(r.Expr)
			if err != nil {
				return decl, fmt.Errorf("request.expr: %w", err)
			}
			decl.Whole = fn
		} else {
			if r.Method != "" {
				decl.Method = r.Method
			}
			switch {
			case r.PathRegex != "":
				re, err := regexp.Compile(r.PathRegex)
				if err != nil {
					return decl, fmt.Errorf("request.pathRegex: %w", err)
				}
				decl.Path = re
			case r.Path != "":
				decl.Path = r.Path
			}
			if r.Query != "" {
				decl.Query = r.Query
			}
			if len(r.Headers) > 0 {
				headers := make(map[string]any, len(r.Headers))
				for k, v := range r.Headers {
					headers[k] = v
				}
				decl.Headers = headers
			}
			if r.Body != "" {
				decl.Body = r.Body
			}
		}
	}

	if ym.Response != nil {
		resp := ym.Response
		if resp.Expr != "" {
			fn, err := CompileResponseFunc(resp.Expr)
			if err != nil {
				return decl, fmt.Errorf("response.expr: %w", err)
			}
			decl.ResWhole = fn
		} else {
			if resp.Body != "" {
				decl.ResBody = resp.Body
			}
			if resp.StatusCode != 0 {
				decl.StatusCode = resp.StatusCode
			}
			if len(resp.Headers) > 0 {
				headers := make(map[string]any, len(resp.Headers))
				for k, v := range resp.Headers {
					headers[k] = v
				}
				decl.ResHeaders = headers
			}
			if resp.HeaderDelayMs != 0 {
				decl.HeaderDelayMs = resp.HeaderDelayMs
			}
			if resp.BodyDelayMs != 0 {
				decl.BodyDelayMs = resp.BodyDelayMs
			}
			if resp.DestroySocket {
				decl.DestroySocket = true
			}
		}
	}

	return decl, nil
}
