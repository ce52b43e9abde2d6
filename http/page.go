package http

import (
	"math/big"
	"strconv"

	spendpermission "github.com/base-spend-permission/go"
	"github.com/base-spend-permission/go/mechanisms/evm"
)

// PageConfig holds the texts and defaults rendered into the UI
type PageConfig struct {
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	DefaultAllowance string   `json:"defaultAllowance"`
	NextSteps        []string `json:"nextSteps"`
	TokenDecimals    int      `json:"tokenDecimals"`
}

// DefaultPageConfig returns the stock page texts
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Title:            "Spend Permission Setup",
		Subtitle:         "Grant the backend wallet a recurring allowance to spend tokens on your behalf.",
		DefaultAllowance: DefaultAllowance,
		NextSteps: []string{
			"Copy the permission object and signature from the server console.",
			"Paste them into the backend approve script.",
			"Run the approve script to register the permission onchain.",
			"Run the spend script to pull funds within the allowance.",
		},
		TokenDecimals: evm.DefaultDecimals,
	}
}

type pageData struct {
	Config  PageConfig
	State   spendpermission.SessionState
	Spender string
}

// ShortSpender is used by the template
func (d pageData) ShortSpender() string {
	return spendpermission.ShortAddress(d.Spender)
}

// ShortAccount is used by the template
func (d pageData) ShortAccount() string {
	return d.State.Account.Short()
}

// permissionField is one row of the signed permission panel. Key matches the
// JSON name in the POST /api/permissions response.
type permissionField struct {
	Label string
	Key   string
	Value string
}

// PermissionFields lists the signed permission for the success panel. Values
// are empty until a permission exists.
func (d pageData) PermissionFields() []permissionField {
	fields := []permissionField{
		{Label: "User", Key: "account"},
		{Label: "Spender", Key: "spender"},
		{Label: "Token", Key: "token"},
		{Label: "Allowance", Key: "allowanceTokens"},
		{Label: "Allowance (base units)", Key: "allowance"},
		{Label: "Period (seconds)", Key: "period"},
		{Label: "Start", Key: "start"},
		{Label: "End", Key: "end"},
		{Label: "Salt", Key: "salt"},
		{Label: "Extra data", Key: "extraData"},
		{Label: "Signature", Key: "signature"},
	}
	if d.State.Permission == nil {
		return fields
	}

	p := d.State.Permission.Permission
	values := map[string]string{
		"account":         p.Account,
		"spender":         p.Spender,
		"token":           p.Token,
		"allowanceTokens": d.allowanceTokens(p.Allowance),
		"allowance":       p.Allowance,
		"period":          strconv.FormatUint(p.Period, 10),
		"start":           strconv.FormatUint(p.Start, 10),
		"end":             strconv.FormatUint(p.End, 10),
		"salt":            p.Salt,
		"extraData":       p.ExtraData,
		"signature":       d.State.Permission.Signature,
	}
	for i := range fields {
		fields[i].Value = values[fields[i].Key]
	}
	return fields
}

func (d pageData) allowanceTokens(baseUnits string) string {
	value, ok := new(big.Int).SetString(baseUnits, 10)
	if !ok {
		return ""
	}
	return evm.FormatUnits(value, d.Config.TokenDecimals)
}

// The config object is injected as JSON into window.spendPermissionConfig.
// The inline script formats the returned allowance with its tokenDecimals.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Config.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; background: #f5f6f8; margin: 0; }
main { max-width: 560px; margin: 48px auto; background: #fff; border-radius: 12px; padding: 32px; box-shadow: 0 2px 12px rgba(0,0,0,.08); }
h1 { margin-top: 0; font-size: 1.5rem; }
button { background: #0052ff; color: #fff; border: 0; border-radius: 8px; padding: 10px 18px; font-size: 1rem; cursor: pointer; }
button:disabled { opacity: .5; cursor: default; }
input { font-size: 1rem; padding: 8px; border: 1px solid #ccc; border-radius: 6px; width: 160px; }
.row { margin: 16px 0; }
.muted { color: #666; font-size: .9rem; }
.error { color: #c00; margin-top: 12px; }
.success { background: #effaf2; border: 1px solid #b6e2c1; border-radius: 8px; padding: 16px; margin-top: 16px; }
.hidden { display: none; }
code { font-size: .85rem; }
dl { display: grid; grid-template-columns: max-content 1fr; gap: 4px 12px; margin: 12px 0; }
dt { color: #666; font-size: .9rem; }
dd { margin: 0; word-break: break-all; }
</style>
</head>
<body>
<main>
  <h1>{{.Config.Title}}</h1>
  <p class="muted">{{.Config.Subtitle}}</p>

  <section id="connect-section" class="{{if .State.Connected}}hidden{{end}}">
    <button id="connect-button">Connect Wallet</button>
  </section>

  <section id="permission-section" class="{{if not .State.Connected}}hidden{{end}}">
    <div class="row">Connected: <code id="account">{{.ShortAccount}}</code></div>
    <div class="row">Spender: <code title="{{.Spender}}">{{.ShortSpender}}</code></div>
    <div class="row">
      <label for="allowance">Allowance (tokens per 30 days)</label><br>
      <input id="allowance" type="text" inputmode="decimal" value="{{.Config.DefaultAllowance}}"{{if .State.Permission}} disabled{{end}}>
    </div>
    {{if .State.Permission}}<button id="create-button" disabled>Permission Created</button>{{else}}<button id="create-button">Create Spend Permission</button>{{end}}
  </section>

  <div id="error" class="error hidden"></div>

  <section id="success" class="success {{if not .State.Permission}}hidden{{end}}">
    <strong>Spend permission created!</strong>
    <dl id="permission-details">
      {{range .PermissionFields}}<dt>{{.Label}}</dt><dd><code data-field="{{.Key}}">{{.Value}}</code></dd>
      {{end}}
    </dl>
    <ol>
      {{range .Config.NextSteps}}<li>{{.}}</li>{{end}}
    </ol>
  </section>
</main>
<script>
window.spendPermissionConfig = {{.Config}};
(function () {
  var $ = function (id) { return document.getElementById(id); };
  var short = function (a) { return a && a.length > 10 ? a.slice(0, 6) + "..." + a.slice(-4) : a; };
  var showError = function (msg) { var e = $("error"); e.textContent = msg; e.classList.toggle("hidden", !msg); };
  var config = window.spendPermissionConfig || {};

  function formatUnits(value, decimals) {
    var digits = BigInt(value).toString();
    if (!decimals) { return digits; }
    digits = digits.padStart(decimals + 1, "0");
    var whole = digits.slice(0, digits.length - decimals);
    var fraction = digits.slice(digits.length - decimals).replace(/0+$/, "");
    return fraction ? whole + "." + fraction : whole;
  }

  function showPermission(signed) {
    var values = Object.assign({}, signed.permission, {
      allowanceTokens: formatUnits(signed.permission.allowance, config.tokenDecimals),
      signature: signed.signature
    });
    document.querySelectorAll("#permission-details [data-field]").forEach(function (el) {
      var value = values[el.getAttribute("data-field")];
      el.textContent = value === undefined ? "" : String(value);
    });
    $("success").classList.remove("hidden");
  }

  async function post(path, body) {
    var res = await fetch(path, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: body ? JSON.stringify(body) : "{}"
    });
    var data = await res.json();
    if (!res.ok) { throw new Error(data.message || data.code || res.statusText); }
    return data;
  }

  $("connect-button").addEventListener("click", async function () {
    var btn = this;
    btn.disabled = true; btn.textContent = "Connecting...";
    showError("");
    try {
      var data = await post("/api/connect");
      $("account").textContent = short(data.account);
      $("connect-section").classList.add("hidden");
      $("permission-section").classList.remove("hidden");
    } catch (err) {
      showError(err.message);
    } finally {
      btn.disabled = false; btn.textContent = "Connect Wallet";
    }
  });

  $("create-button").addEventListener("click", async function () {
    var btn = this;
    btn.disabled = true; btn.textContent = "Creating...";
    $("allowance").disabled = true;
    showError("");
    try {
      var signed = await post("/api/permissions", { allowance: $("allowance").value });
      showPermission(signed);
      btn.textContent = "Permission Created";
      return;
    } catch (err) {
      showError(err.message);
    }
    $("allowance").disabled = false;
    btn.disabled = false; btn.textContent = "Create Spend Permission";
  });
})();
</script>
</body>
</html>
`
