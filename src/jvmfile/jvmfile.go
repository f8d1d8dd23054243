// Package jvmfile renders Dockerfiles for JVM application images.
package jvmfile

import (
	"fmt"
	"strings"
	"text/template"
)

const dockerfileTemplate = `FROM {{.BaseImage}}:{{.BaseTag}}
WORKDIR /app
COPY . /app
{{- range .Extra}}
{{.}}
{{- end}}
ENTRYPOINT ["java", "-jar", "{{.AppName}}.jar"]
`

var tmpl = template.Must(template.New("dockerfile").Parse(dockerfileTemplate))

// Render produces the Dockerfile text for a JVM application layered on
// the given base image. extra lines are inserted verbatim between the COPY
// and the ENTRYPOINT.
func Render(baseImage, baseTag, appName string, extra []string) (string, error) {
	if baseImage == "" {
		return "", fmt.Errorf("jvmfile: base image is required")
	}
	if baseTag == "" {
		baseTag = "latest"
	}
	var b strings.Builder
	err := tmpl.Execute(&b, struct {
		BaseImage, BaseTag, AppName string
		Extra                       []string
	}{baseImage, baseTag, appName, extra})
	if err != nil {
		return "", fmt.Errorf("jvmfile: %w", err)
	}
	return b.String(), nil
}
