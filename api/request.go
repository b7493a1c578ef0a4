package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/ByLCY/text2pdf/convert"
	"github.com/ByLCY/text2pdf/source"
)

const multipartMemory = 8 << 20

var (
	errBadRequest   = errors.New("bad request")
	errFileTooLarge = errors.New("file too large")
	errBodyTooLarge = errors.New("request body too large")
)

// convertInput is the body of /api/convert and /api/preview.
type convertInput struct {
	Text     string          `json:"text"`
	Filename string          `json:"filename"`
	Options  json.RawMessage `json:"options"`
	Template string          `json:"template"`
	Data     any             `json:"data"`
}

// readRequest decodes a JSON, urlencoded or multipart body and resolves the
// template into a convert.Request.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (convert.Request, error) {
	in, err := s.decodeInput(w, r)
	if err != nil {
		return convert.Request{}, err
	}
	opts, err := decodeOptions(in.Options)
	if err != nil {
		return convert.Request{}, err
	}
	opts, err = s.presets.Resolve(in.Template, opts)
	if err != nil {
		return convert.Request{}, err
	}
	return convert.Request{
		Text:     in.Text,
		Filename: in.Filename,
		Options:  opts,
		Data:     in.Data,
	}, nil
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (convertInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data", "application/x-www-form-urlencoded":
		return s.decodeForm(w, r, mediaType)
	default:
		return s.decodeJSON(w, r)
	}
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request) (convertInput, error) {
	var in convertInput
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		if isTooLarge(err) {
			return in, errBodyTooLarge
		}
		return in, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return in, nil
}

func (s *Server) decodeForm(w http.ResponseWriter, r *http.Request, mediaType string) (convertInput, error) {
	var in convertInput
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize+s.cfg.MaxBodyBytes)
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		if isTooLarge(err) {
			return in, errFileTooLarge
		}
		return in, fmt.Errorf("%w: invalid form: %v", errBadRequest, err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	in.Text = r.FormValue("text")
	in.Filename = r.FormValue("filename")
	in.Template = r.FormValue("template")
	if v := r.FormValue("options"); v != "" {
		in.Options = json.RawMessage(v)
	}
	if v := r.FormValue("data"); v != "" {
		if err := json.Unmarshal([]byte(v), &in.Data); err != nil {
			return in, fmt.Errorf("%w: invalid data JSON: %v", errBadRequest, err)
		}
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["file"]) == 0 {
		return in, nil
	}
	// 上传文件优先于 text 字段
	file, header, err := r.FormFile("file")
	if err != nil {
		return in, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	defer file.Close()
	if header.Size > s.cfg.MaxFileSize {
		return in, errFileTooLarge
	}
	text, err := source.ExtractFile(header.Filename, file, s.sourceOptions())
	if err != nil {
		return in, err
	}
	in.Text = text
	return in, nil
}

// decodeOptions accepts an options object or a JSON string containing one.
func decodeOptions(raw json.RawMessage) (convert.Options, error) {
	var opts convert.Options
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return opts, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return opts, fmt.Errorf("%w: options: %v", errBadRequest, err)
		}
		raw = []byte(inner)
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return opts, &convert.OptionError{
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("expected %s, received %s", jsonKind(typeErr.Type.Kind()), typeErr.Value),
			}
		}
		return opts, fmt.Errorf("%w: options: %v", errBadRequest, err)
	}
	return opts, nil
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func jsonKind(k reflect.Kind) string {
	switch k {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	default:
		return k.String()
	}
}
