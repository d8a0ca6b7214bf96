package notify

import (
	"bytes"
	"html/template"
)

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(
		`<p>Hi {{.Name}},</p>
<p>Welcome to Doggy Rescue! Your account is ready. Browse the dogs waiting for a home at
<a href="{{.BaseURL}}/dogs/pending">{{.BaseURL}}</a>.</p>`))

	requestedTmpl = template.Must(template.New("requested").Parse(
		`<p>New adoption request for <b>{{.DogName}}</b> ({{.DogBreed}}).</p>
<ul>
<li>Applicant: {{.Applicant}} &lt;{{.Email}}&gt;</li>
<li>Age: {{.AdopterAge}}, household: {{.People}}, hours away per day: {{.HoursAway}}</li>
</ul>
<p><a href="{{.BaseURL}}/adoption-requests/{{.Key}}">Review the request</a></p>`))
)

func render(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
