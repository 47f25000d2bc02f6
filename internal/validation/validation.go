// Package validation はリクエストボディをJSON Schemaで検証し、型付きの値に変換する。
// 業務ロジックに到達する前に全ての入力をここで弾く。
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hitoshi/recipeman/internal/model"
)

const (
	// rootField はボディ全体に対する違反を表すフィールド名。
	rootField = "body"
	// schemaRoot はgojsonschemaがルート要素に付ける名前。
	schemaRoot = "(root)"
)

// Schema はコンパイル済みのJSON Schema。
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// NewSchema はJSON Schema文書をコンパイルしてSchemaを生成する。
func NewSchema(name, document string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustSchema はNewSchemaと同じだが、コンパイルに失敗した場合はpanicする。
// パッケージ初期化時の組み込みスキーマにのみ使う。
func MustSchema(name, document string) *Schema {
	s, err := NewSchema(name, document)
	if err != nil {
		panic(err)
	}
	return s
}

// Name はスキーマ名を返す。
func (s *Schema) Name() string {
	return s.name
}

// Validate はJSONバイト列を検証し、違反があればフィールド単位のエラー一覧を返す。
// JSONとして解析できない場合はerrorを返す。
func (s *Schema) Validate(body []byte) ([]model.FieldError, error) {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	fields := make([]model.FieldError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		fields = append(fields, model.FieldError{
			Field:   fieldName(re),
			Message: re.Description(),
		})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Field < fields[j].Field
	})
	return fields, nil
}

// Decode はボディを読み込み、スキーマで検証したうえでTに変換する。
// 失敗時は*model.APIErrorを返す。
//   - JSONとして不正: INVALID_REQUEST
//   - スキーマ違反: VALIDATION_FAILED（違反フィールド一覧付き）
func Decode[T any](s *Schema, r io.Reader) (T, error) {
	var zero T

	body, err := io.ReadAll(r)
	if err != nil {
		return zero, model.NewInvalidRequestError()
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return zero, model.NewInvalidRequestError()
	}

	fields, err := s.Validate(body)
	if err != nil {
		return zero, model.NewInvalidRequestError()
	}
	if len(fields) > 0 {
		return zero, model.NewValidationError(fields)
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return zero, model.NewInvalidRequestError()
	}
	return v, nil
}

// fieldName は違反箇所のフィールド名を返す。
// required違反はルートに対して報告されるため、欠けているプロパティ名を取り出す。
func fieldName(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok && prop != "" {
			return prop
		}
	}
	field := re.Field()
	if field == "" || field == schemaRoot {
		return rootField
	}
	return field
}
