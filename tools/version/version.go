/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

// Command version generates version/current.go from the VIRTUALWIN_VERSION
// environment variable and the current git revision.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/andreas-jonsson/virtualwin/version"
	log "github.com/sirupsen/logrus"
)

func main() {
	file := flag.String("file", "-", "Save the generated output to file.")
	pkg := flag.String("package", "version", "Package name of the generated output.")
	variable := flag.String("variable", "VIRTUALWIN_VERSION", "Environment variable containing the version number.")
	flag.Parse()

	res, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		log.WithError(err).Warn("could not parse Git hash")
	}

	const defaultVersion = "0.1.0.0"
	str := os.Getenv(*variable)
	if str == "" {
		str = defaultVersion
		log.Infof("%s is not set. Defaulting to %s", *variable, str)
	}

	ver, err := version.Parse(str)
	if err != nil {
		log.WithError(err).Warn("falling back to default version")
		ver, _ = version.Parse(defaultVersion)
	}

	const (
		startYear    = 2019
		copyrightFmt = "Copyright (c) %v Andreas T Jonsson"
	)

	copyrightString := fmt.Sprintf(copyrightFmt, startYear)
	if year := time.Now().Year(); year != startYear {
		copyrightString = fmt.Sprintf(copyrightFmt, fmt.Sprintf("%d-%d", startYear, year))
	}

	values := map[string]interface{}{
		"hash":  strings.TrimSpace(string(res)),
		"major": ver.Major,
		"minor": ver.Minor,
		"patch": ver.Patch,
		"build": ver.Build,
		"copy":  copyrightString,
		"pkg":   *pkg,
	}

	tmpl := template.Must(template.New("version").Parse(content))

	fp := os.Stdout
	if *file != "-" {
		os.MkdirAll(path.Dir(*file), 0777)
		if fp, err = os.Create(*file); err != nil {
			log.WithError(err).Fatal("could not create output")
		}
		defer fp.Close()
	}

	if err := tmpl.Execute(fp, values); err != nil {
		log.WithError(err).Fatal("could not generate version file")
	}
}

var content = `/*
{{.copy}}

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package {{.pkg}}

var (
	Current   = Version{ {{.major}}, {{.minor}}, {{.patch}}, "{{.build}}" }
	Copyright = "{{.copy}}"
	Hash      = "{{.hash}}"
)
`
