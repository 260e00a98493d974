package intake

import (
	"bytes"
	"context"
	"html/template"

	"github.com/emekaobi/staffintake/pkg/forms"
)

// viewModel is everything the form template needs for one render.
type viewModel struct {
	Step       int
	StepName   string
	Steps      []stepTab
	Fields     []fieldView
	Progress   int
	Submitting bool
	Notice     string
	Failure    string
	IsFirst    bool
	IsFinal    bool
}

type stepTab struct {
	Num     int
	Name    string
	Current bool
}

type fieldView struct {
	Name        string
	Type        forms.FieldType
	Label       string
	Placeholder string
	Required    bool
	Value       string
	Options     []forms.Option
	Errors      []string
}

var formTemplate = template.Must(template.New("intake").Parse(`
<div class="intake" id="intake-form">
  {{if .Notice}}<div class="banner banner-success">{{.Notice}}
    <button type="button" data-event="dismiss_notice">&times;</button></div>{{end}}
  {{if .Failure}}<div class="banner banner-error">{{.Failure}}
    <button type="button" data-event="dismiss_notice">&times;</button></div>{{end}}

  <nav class="steps">
    {{range .Steps}}
    <button type="button" class="step{{if .Current}} step-current{{end}}"
            data-event="goto_step" data-step="{{.Num}}">{{.Num}}. {{.Name}}</button>
    {{end}}
  </nav>

  <div class="progress"><div class="progress-bar" style="width: {{.Progress}}%"></div>
    <span class="progress-label">{{.Progress}}%</span></div>

  <fieldset {{if .Submitting}}disabled{{end}}>
    <legend>{{.StepName}}</legend>
    {{range .Fields}}
    <div class="field{{if .Errors}} field-invalid{{end}}">
      <label for="{{.Name}}">{{.Label}}{{if .Required}} *{{end}}</label>
      {{if eq .Type "select"}}
      <select id="{{.Name}}" name="{{.Name}}" data-field="{{.Name}}">
        <option value=""></option>
        {{$v := .Value}}{{range .Options}}
        <option value="{{.Value}}"{{if eq .Value $v}} selected{{end}}>{{.Label}}</option>
        {{end}}
      </select>
      {{else if eq .Type "textarea"}}
      <textarea id="{{.Name}}" name="{{.Name}}" data-field="{{.Name}}"
                placeholder="{{.Placeholder}}">{{.Value}}</textarea>
      {{else}}
      <input id="{{.Name}}" name="{{.Name}}" type="{{.Type}}" data-field="{{.Name}}"
             value="{{.Value}}" placeholder="{{.Placeholder}}">
      {{end}}
      {{range .Errors}}<p class="field-error">{{.}}</p>{{end}}
    </div>
    {{end}}
  </fieldset>

  <div class="actions">
    {{if not .IsFirst}}<button type="button" data-event="prev_step">Back</button>{{end}}
    {{if .IsFinal}}
    <button type="button" data-event="submit" {{if .Submitting}}disabled{{end}}>
      {{if .Submitting}}Submitting…{{else}}Submit{{end}}</button>
    {{else}}
    <button type="button" data-event="next_step">Next</button>
    {{end}}
    <button type="button" class="link" data-event="reset">Reset</button>
  </div>
</div>
`))

// Render returns the current HTML for the form.
func (c *Component) Render(ctx context.Context) (string, error) {
	step := c.form.Step()

	vm := viewModel{
		Step:       step,
		StepName:   StepName(step),
		Progress:   c.form.Progress(),
		Submitting: c.form.Submitting(),
		Notice:     c.notice,
		Failure:    c.failure,
		IsFirst:    step == StepPersonal,
		IsFinal:    step == StepContact,
	}

	for n := StepPersonal; n <= stepCount; n++ {
		vm.Steps = append(vm.Steps, stepTab{Num: n, Name: StepName(n), Current: n == step})
	}

	for _, field := range c.form.StepFields(step) {
		vm.Fields = append(vm.Fields, fieldView{
			Name:        field.Name,
			Type:        field.Type,
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Required:    field.Required,
			Value:       c.form.Value(field.Name),
			Options:     field.Options,
			Errors:      c.form.Errors(field.Name),
		})
	}

	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, vm); err != nil {
		return "", err
	}
	return buf.String(), nil
}
