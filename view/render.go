package view

import (
	"html/template"
	"io"
)

var funcs = template.FuncMap{
	"yesno": func(b bool) string {
		if b {
			return "True"
		}
		return "False"
	},
	"ms": func(t Toast) int64 { return t.ExpiresIn.Milliseconds() },
}

var pageTemplate = template.Must(template.New("page").Funcs(funcs).Parse(pageHTML))

// Render writes the page as HTML.
func Render(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Registration</title>
</head>
<body>
{{if .IsAdmin}}<nav class="navbar navbar-admin"><a href="/">Registration</a> <a href="/api/state">State</a> <a href="/api/metrics">Metrics</a></nav>
{{else}}<nav class="navbar"><a href="/">Registration</a></nav>
{{end}}
<div class="notification-container">
{{range .Notifications}}<div class="notification notification-{{.Kind}}" data-id="{{.ID}}" data-timeout="{{ms .}}"><h4 class="title">{{.Title}}</h4><div class="message">{{.Message}}</div></div>
{{end}}</div>
{{if .Placeholder}}<div class="container-item attention"><center>{{.Placeholder}}</center></div>
{{end}}
{{if not .Loading}}{{if eq .Phase "open"}}
<div class="container-item info"><p>Total Verified voters: {{.VoterCount}}</p>{{if .SyncedAgo}}<small>Last synced {{.SyncedAgo}}</small>{{end}}</div>
{{with .Form}}
<div class="container-main">
<h3>Registration</h3>
<small>Register to vote.</small>
<div class="container-item">
<form id="registration" method="post" action="/register">
<div class="div-li"><label class="label-r">Account Address
<input class="input-r" type="text" name="account" value="{{.Account}}" readonly style="width: 400px"></label></div>
<div class="div-li"><label class="label-r">Name
<input class="input-r" type="text" name="name" placeholder="eg. Ava" value="{{.Name}}"></label></div>
<div class="div-li"><label class="label-r">Phone number <span style="color: tomato">*</span>
<input class="input-r{{if .PhoneHint}} error{{end}}" type="text" inputmode="numeric" name="phone" data-length="10" placeholder="eg. 9841234567" value="{{.Phone}}">
<span class="error-message"{{if not .PhoneHint}} hidden{{end}}>Phone number must be 10 digits</span></label></div>
<div class="div-li"><label class="label-r">AadharCard No. <span style="color: tomato">*</span>
<input class="input-r{{if .DocumentHint}} error{{end}}" type="text" inputmode="numeric" name="document_number" data-length="16" placeholder="eg. 1234567890123456" value="{{.DocumentNumber}}">
<span class="error-message"{{if not .DocumentHint}} hidden{{end}}>Aadhar card number must be 16 digits</span></label></div>
<p class="note"><span style="color: tomato"> Note: </span><br> Make sure your account address and Phone number are correct. <br> Admin might not approve your account if the provided Phone number does not match the account address registered in the admin's catalogue.</p>
<button class="btn-add" type="submit"{{if .SubmitDisabled}} disabled{{end}}>{{.SubmitLabel}}</button>
</form>
</div>
</div>
{{end}}{{end}}
{{with .Self}}
<div class="container-main"{{if not .Registered}} style="border-top: 1px solid"{{end}}>
<div class="container-item {{.Style}}"><center>Your Registered Info</center></div>
<div class="container-list {{.Style}}">
<table>
<tr><th>Account Address</th><td>{{.Record.Address.Hex}}</td></tr>
<tr><th>Name</th><td>{{.Record.Name}}</td></tr>
<tr><th>Phone</th><td>{{.Record.Phone}}</td></tr>
<tr><th>AadharCard No.</th><td>{{.Record.DocumentNumber}}</td></tr>
<tr><th>Voted</th><td>{{yesno .Record.HasVoted}}</td></tr>
<tr><th>Verification</th><td>{{yesno .Record.IsVerified}}</td></tr>
<tr><th>Registered</th><td>{{yesno .Record.IsRegistered}}</td></tr>
</table>
</div>
</div>
{{end}}
{{with .Roster}}
<div class="container-main" style="border-top: 1px solid">
<small>TotalVoters: {{.Total}}</small>
<div class="container-item success"><center>List of voters</center></div>
{{range .Voters}}<div class="container-list success">
<table>
<tr><th>Account address</th><td>{{.Address.Hex}}</td></tr>
<tr><th>Name</th><td>{{.Name}}</td></tr>
<tr><th>Phone</th><td>{{.Phone}}</td></tr>
<tr><th>AadharCard No.</th><td>{{.DocumentNumber}}</td></tr>
<tr><th>Voted</th><td>{{yesno .HasVoted}}</td></tr>
<tr><th>Verified</th><td>{{yesno .IsVerified}}</td></tr>
<tr><th>Registered</th><td>{{yesno .IsRegistered}}</td></tr>
</table>
</div>
{{end}}</div>
{{end}}{{end}}
<script>
(function () {
  var form = document.getElementById("registration");
  if (form) {
    var button = form.querySelector("button");
    var check = function () {
      var ok = true;
      form.querySelectorAll("input[data-length]").forEach(function (input) {
        var valid = /^\d*$/.test(input.value) && input.value.length === Number(input.dataset.length);
        input.classList.toggle("error", !valid);
        input.parentNode.querySelector(".error-message").hidden = valid;
        ok = ok && valid;
      });
      button.disabled = !ok;
    };
    form.addEventListener("input", check);
  }
  document.querySelectorAll(".notification[data-timeout]").forEach(function (el) {
    setTimeout(function () { el.remove(); }, Number(el.dataset.timeout));
  });
})();
</script>
</body>
</html>
`
